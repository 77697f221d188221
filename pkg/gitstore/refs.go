package gitstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage"
	logger "github.com/sirupsen/logrus"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

func (s *Store) LookupReference(name string) (*refs.Reference, error) {
	if err := validateStoredName(name); err != nil {
		return nil, err
	}
	ref, err := s.repo.Storer.Reference(plumbing.ReferenceName(name))
	if err != nil {
		return nil, fmt.Errorf("lookup ref %q: %w", name, notFound(err, name))
	}
	return toReference(ref), nil
}

func (s *Store) ResolveReference(ref *refs.Reference) (*refs.Reference, error) {
	cur := ref
	for depth := 0; cur.IsSymbolic(); depth++ {
		if depth >= refs.MaxSymbolicDepth {
			return nil, fmt.Errorf("resolve ref %q: %w", ref.Name, refs.ErrSymlinkDepth)
		}
		next, err := s.LookupReference(cur.Symbolic)
		if err != nil {
			return nil, fmt.Errorf("resolve ref %q: %w", ref.Name, err)
		}
		cur = next
	}
	return cur, nil
}

func (s *Store) CreateReference(name string, target object.Hash, force bool) (*refs.Reference, error) {
	if err := validateStoredName(name); err != nil {
		return nil, err
	}
	h, err := toHash(target)
	if err != nil {
		return nil, fmt.Errorf("create ref %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !force {
		if _, err := s.repo.Storer.Reference(plumbing.ReferenceName(name)); err == nil {
			return nil, fmt.Errorf("create ref %q: %w", name, refs.ErrExists)
		} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("create ref %q: %w", name, err)
		}
	}
	if err := s.checkPathConflict(name); err != nil {
		return nil, fmt.Errorf("create ref %q: %w", name, err)
	}
	if err := s.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.ReferenceName(name), h)); err != nil {
		return nil, fmt.Errorf("create ref %q: %w", name, err)
	}
	logger.WithFields(logger.Fields{"ref": name, "target": target.Short(), "force": force}).Debug("created git reference")
	return refs.NewHashReference(name, target), nil
}

// DeleteReference removes ref, failing with storage.ErrReferenceHasChanged
// when its stored value no longer matches.
func (s *Store) DeleteReference(ref *refs.Reference) error {
	if ref.Name == refs.HEAD {
		return fmt.Errorf("delete ref: %w: refusing to delete HEAD", refs.ErrInvalidName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnchanged(ref); err != nil {
		return fmt.Errorf("delete ref %q: %w", ref.Name, err)
	}
	if err := s.repo.Storer.RemoveReference(plumbing.ReferenceName(ref.Name)); err != nil {
		return fmt.Errorf("delete ref %q: %w", ref.Name, err)
	}
	logger.WithField("ref", ref.Name).Debug("deleted git reference")
	return nil
}

// RenameReference writes newName, then removes the source. If the removal
// fails the new name is removed again, so either both steps apply or none.
func (s *Store) RenameReference(ref *refs.Reference, newName string, force bool) (*refs.Reference, error) {
	if err := validateStoredName(newName); err != nil {
		return nil, err
	}
	if newName == refs.HEAD || ref.Name == refs.HEAD {
		return nil, fmt.Errorf("rename ref %q: %w: HEAD cannot be renamed", ref.Name, refs.ErrInvalidName)
	}
	if newName == ref.Name {
		current, err := s.LookupReference(ref.Name)
		if err != nil {
			return nil, fmt.Errorf("rename ref %q: %w", ref.Name, err)
		}
		if !force {
			return nil, fmt.Errorf("rename ref %q to itself: %w", ref.Name, refs.ErrExists)
		}
		return current, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Storer.Reference(plumbing.ReferenceName(ref.Name))
	if err != nil {
		return nil, fmt.Errorf("rename ref %q: %w", ref.Name, notFound(err, ref.Name))
	}
	if !force {
		if _, err := s.repo.Storer.Reference(plumbing.ReferenceName(newName)); err == nil {
			return nil, fmt.Errorf("rename ref %q to %q: %w", ref.Name, newName, refs.ErrExists)
		} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("rename ref %q to %q: %w", ref.Name, newName, err)
		}
	}

	if err := s.checkPathConflict(newName); err != nil {
		return nil, fmt.Errorf("rename ref %q to %q: %w", ref.Name, newName, err)
	}

	src := toReference(current)
	src.Name = newName
	renamed, err := toPlumbing(src)
	if err != nil {
		return nil, fmt.Errorf("rename ref %q: %w", ref.Name, err)
	}
	if err := s.repo.Storer.SetReference(renamed); err != nil {
		return nil, fmt.Errorf("rename ref %q to %q: %w", ref.Name, newName, err)
	}
	if err := s.repo.Storer.RemoveReference(current.Name()); err != nil {
		logger.WithFields(logger.Fields{"ref": ref.Name, "new": newName}).Warnf("rename failed, removing new name: %v", err)
		if undoErr := s.repo.Storer.RemoveReference(renamed.Name()); undoErr != nil {
			return nil, fmt.Errorf("rename ref %q: %w (rollback failed: %v)", ref.Name, err, undoErr)
		}
		return nil, fmt.Errorf("rename ref %q: %w", ref.Name, err)
	}

	head, err := s.repo.Storer.Reference(plumbing.HEAD)
	if err == nil && head.Type() == plumbing.SymbolicReference && head.Target() == current.Name() {
		if err := s.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, renamed.Name())); err != nil {
			return nil, fmt.Errorf("rename ref %q: repoint HEAD: %w", ref.Name, err)
		}
	}
	logger.WithFields(logger.Fields{"ref": ref.Name, "new": newName, "force": force}).Debug("renamed git reference")
	return toReference(renamed), nil
}

func (s *Store) checkUnchanged(expected *refs.Reference) error {
	current, err := s.repo.Storer.Reference(plumbing.ReferenceName(expected.Name))
	if err != nil {
		return notFound(err, expected.Name)
	}
	got := toReference(current)
	if got.Target != expected.Target || got.Symbolic != expected.Symbolic {
		return storage.ErrReferenceHasChanged
	}
	return nil
}

// checkPathConflict rejects name when an existing reference lives below it
// (name/...) or above it (a prefix of name followed by "/"). Git stores
// loose refs as files, so such pairs cannot coexist.
func (s *Store) checkPathConflict(name string) error {
	iter, err := s.repo.Storer.IterReferences()
	if err != nil {
		return err
	}
	defer iter.Close()

	var conflict string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		other := ref.Name().String()
		if strings.HasPrefix(other, name+"/") || strings.HasPrefix(name, other+"/") {
			conflict = other
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return err
	}
	if conflict != "" {
		return fmt.Errorf("%w: %q conflicts with %q", refs.ErrExists, name, conflict)
	}
	return nil
}
