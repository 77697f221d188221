package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// CreateTag creates or updates a lightweight tag ref under refs/tags/.
func (r *Repo) CreateTag(name string, target object.Hash, force bool) error {
	name = strings.TrimSpace(name)
	if err := refs.ValidateRefName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if strings.TrimSpace(string(target)) == "" {
		return fmt.Errorf("create tag: target hash is required")
	}
	if _, _, err := r.Store.ReadTyped(target, object.TypeAny); err != nil {
		return fmt.Errorf("create tag: read target %s: %w", target, err)
	}
	if _, err := r.CreateReference(refs.TagsPrefix+name, target, force); err != nil {
		if errors.Is(err, refs.ErrExists) {
			return fmt.Errorf("create tag: tag %q already exists", name)
		}
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// DeleteTag removes a tag ref from refs/tags/.
func (r *Repo) DeleteTag(name string) error {
	name = strings.TrimSpace(name)
	if err := refs.ValidateRefName(name); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	ref, err := r.LookupReference(refs.TagsPrefix + name)
	if err != nil {
		if errors.Is(err, refs.ErrNotFound) {
			return fmt.Errorf("delete tag: tag %q does not exist", name)
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	return r.DeleteReference(ref)
}

// ListTags lists tag names sorted alphabetically.
func (r *Repo) ListTags() ([]string, error) {
	root := filepath.Join(r.GotDir, "refs", "tags")
	var names []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), ".lock") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	sort.Strings(names)
	return names, nil
}
