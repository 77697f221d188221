package gitstore

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/odvcencio/gotref/pkg/refs"
)

type refIter struct {
	store  *Store
	iter   storer.ReferenceIter
	filter refs.BranchType
	closed bool
}

// IterateReferences opens a cursor over refs/heads and/or refs/remotes.
// Order follows go-git's storage and is not sorted.
func (s *Store) IterateReferences(filter refs.BranchType) (refs.ReferenceIter, error) {
	if filter&refs.AllBranches == 0 || filter&^refs.AllBranches != 0 {
		return nil, fmt.Errorf("iterate refs: invalid branch filter %d", filter)
	}
	it, err := s.repo.Storer.IterReferences()
	if err != nil {
		return nil, fmt.Errorf("iterate refs: %w", err)
	}
	s.openIters.Add(1)
	return &refIter{store: s, iter: it, filter: filter}, nil
}

func (it *refIter) Next() (*refs.Reference, refs.BranchType, error) {
	if it.closed {
		return nil, 0, io.EOF
	}
	for {
		ref, err := it.iter.Next()
		if err != nil {
			return nil, 0, err
		}
		name := ref.Name().String()
		typ, ok := refs.BranchTypeOf(name)
		if !ok || typ&it.filter == 0 || strings.HasSuffix(name, ".lock") {
			continue
		}
		return toReference(ref), typ, nil
	}
}

func (it *refIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.iter.Close()
	it.store.openIters.Add(-1)
	return nil
}
