package gitstore

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// CreateTag creates or, with force, replaces the lightweight tag name.
func (s *Store) CreateTag(name string, target object.Hash, force bool) error {
	if err := refs.ValidateRefName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if _, err := s.LookupObject(target, object.TypeAny); err != nil {
		return fmt.Errorf("create tag: read target %s: %w", target, err)
	}
	if _, err := s.CreateReference(refs.TagsPrefix+name, target, force); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

func (s *Store) DeleteTag(name string) error {
	ref, err := s.LookupReference(refs.TagsPrefix + name)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return s.DeleteReference(ref)
}

// ListTags lists tag names sorted alphabetically.
func (s *Store) ListTags() ([]string, error) {
	it, err := s.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer it.Close()

	var names []string
	err = it.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	slices.Sort(names)
	return names, nil
}
