package repo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/gotref/pkg/refs"
)

// refIter walks a snapshot of ref names taken when the cursor was opened and
// reads each ref file lazily. Refs deleted after the snapshot are skipped.
type refIter struct {
	repo   *Repo
	names  []string
	types  []refs.BranchType
	pos    int
	closed bool
}

// IterateReferences opens a cursor over refs/heads and/or refs/remotes.
func (r *Repo) IterateReferences(filter refs.BranchType) (refs.ReferenceIter, error) {
	if filter&refs.AllBranches == 0 || filter&^refs.AllBranches != 0 {
		return nil, fmt.Errorf("iterate refs: invalid branch filter %d", filter)
	}
	it := &refIter{repo: r}
	if filter&refs.Local != 0 {
		if err := it.scan(refs.HeadsPrefix, refs.Local); err != nil {
			return nil, err
		}
	}
	if filter&refs.Remote != 0 {
		if err := it.scan(refs.RemotesPrefix, refs.Remote); err != nil {
			return nil, err
		}
	}
	r.openIters.Add(1)
	return it, nil
}

func (it *refIter) scan(prefix string, typ refs.BranchType) error {
	root := it.repo.refPath(strings.TrimSuffix(prefix, "/"))
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
		it.names = append(it.names, prefix+filepath.ToSlash(rel))
		it.types = append(it.types, typ)
		return nil
	})
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("iterate refs %s: %w", prefix, err)
	}
	return nil
}

func (it *refIter) Next() (*refs.Reference, refs.BranchType, error) {
	if it.closed {
		return nil, 0, io.EOF
	}
	for it.pos < len(it.names) {
		name, typ := it.names[it.pos], it.types[it.pos]
		it.pos++
		ref, err := it.repo.readRef(name)
		if errors.Is(err, refs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, fmt.Errorf("iterate refs: %w", err)
		}
		return ref, typ, nil
	}
	return nil, 0, io.EOF
}

func (it *refIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.repo.openIters.Add(-1)
	return nil
}
