package repo

import (
	"errors"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// LookupReference reads the reference stored under the exact name.
func (r *Repo) LookupReference(name string) (*refs.Reference, error) {
	if err := validateStoredName(name); err != nil {
		return nil, err
	}
	ref, err := r.readRef(name)
	if err != nil {
		return nil, fmt.Errorf("lookup ref %q: %w", name, err)
	}
	return ref, nil
}

// ResolveReference follows ref through symbolic references until it reaches
// a direct one.
func (r *Repo) ResolveReference(ref *refs.Reference) (*refs.Reference, error) {
	cur := ref
	for depth := 0; cur.IsSymbolic(); depth++ {
		if depth >= refs.MaxSymbolicDepth {
			return nil, fmt.Errorf("resolve ref %q: %w", ref.Name, refs.ErrSymlinkDepth)
		}
		next, err := r.LookupReference(cur.Symbolic)
		if err != nil {
			return nil, fmt.Errorf("resolve ref %q: %w", ref.Name, err)
		}
		cur = next
	}
	return cur, nil
}

// ResolveRef resolves a ref name to an object hash.
//
// Resolution order:
//  1. "HEAD" and names starting with "refs/" are read as-is.
//  2. Otherwise, try "refs/heads/<name>".
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	full := name
	if name != refs.HEAD && !strings.HasPrefix(name, refs.RefsPrefix) {
		full = refs.LocalName(name)
	}
	ref, err := r.LookupReference(full)
	if err != nil {
		return "", err
	}
	direct, err := r.ResolveReference(ref)
	if err != nil {
		return "", err
	}
	return direct.Target, nil
}

// LookupObject reads an object from the object store.
func (r *Repo) LookupObject(id object.Hash, want object.ObjectType) (*refs.Object, error) {
	typ, data, err := r.Store.ReadTyped(id, want)
	if err != nil {
		return nil, err
	}
	return &refs.Object{ID: id, Type: typ, Data: data}, nil
}

// CreateReference writes name -> target. Without force an existing ref is
// left alone and refs.ErrExists is returned.
func (r *Repo) CreateReference(name string, target object.Hash, force bool) (*refs.Reference, error) {
	if err := validateStoredName(name); err != nil {
		return nil, err
	}
	ref := refs.NewHashReference(name, target)
	err := r.updateRef(ref, func(old *refs.Reference) error {
		if old != nil && !force {
			return refs.ErrExists
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.WithFields(logger.Fields{"ref": name, "target": target.Short(), "force": force}).Debug("created reference")
	return ref, nil
}

// UpdateRefCAS points name at h. If expectedOld is provided, the update only
// succeeds when the current hash matches it; an empty expectedOld requires
// the ref to be absent.
func (r *Repo) UpdateRefCAS(name string, h object.Hash, expectedOld ...object.Hash) error {
	if len(expectedOld) > 1 {
		return fmt.Errorf("update ref %q: expected at most one old hash", name)
	}
	var check func(*refs.Reference) error
	if len(expectedOld) == 1 {
		want := expectedOld[0]
		check = func(old *refs.Reference) error {
			var found object.Hash
			if old != nil {
				found = old.Target
			}
			if found != want {
				return fmt.Errorf("%w (expected %s, found %s)", ErrRefCASMismatch, want, found)
			}
			return nil
		}
	}
	return r.updateRef(refs.NewHashReference(name, h), check)
}

// DeleteReference removes ref, provided it was not changed since it was read.
func (r *Repo) DeleteReference(ref *refs.Reference) error {
	if ref.Name == refs.HEAD {
		return fmt.Errorf("delete ref: %w: refusing to delete HEAD", refs.ErrInvalidName)
	}
	if err := r.removeRef(ref); err != nil {
		return err
	}
	r.pruneEmptyDirs(ref.Name)
	logger.WithField("ref", ref.Name).Debug("deleted reference")
	return nil
}

// RenameReference moves ref to newName. The old name is released before the
// new one is written so that "a" <-> "a/b" renames work; if writing the new
// name fails, the old ref is restored.
func (r *Repo) RenameReference(ref *refs.Reference, newName string, force bool) (*refs.Reference, error) {
	if err := validateStoredName(newName); err != nil {
		return nil, err
	}
	if newName == refs.HEAD || ref.Name == refs.HEAD {
		return nil, fmt.Errorf("rename ref %q: %w: HEAD cannot be renamed", ref.Name, refs.ErrInvalidName)
	}
	if newName == ref.Name {
		current, err := r.LookupReference(ref.Name)
		if err != nil {
			return nil, fmt.Errorf("rename ref %q: %w", ref.Name, err)
		}
		if !force {
			return nil, fmt.Errorf("rename ref %q to itself: %w", ref.Name, refs.ErrExists)
		}
		return current, nil
	}

	if !force {
		if _, err := r.readRef(newName); err == nil {
			return nil, fmt.Errorf("rename ref %q to %q: %w", ref.Name, newName, refs.ErrExists)
		} else if !errors.Is(err, refs.ErrNotFound) {
			return nil, fmt.Errorf("rename ref %q to %q: %w", ref.Name, newName, err)
		}
	}

	current, err := r.LookupReference(ref.Name)
	if err != nil {
		return nil, fmt.Errorf("rename ref %q: %w", ref.Name, err)
	}
	if err := r.removeRef(current); err != nil {
		return nil, fmt.Errorf("rename ref %q: %w", ref.Name, err)
	}
	r.pruneEmptyDirs(ref.Name)

	renamed := &refs.Reference{Name: newName, Target: current.Target, Symbolic: current.Symbolic}
	err = r.updateRef(renamed, func(old *refs.Reference) error {
		if old != nil && !force {
			return refs.ErrExists
		}
		return nil
	})
	if err != nil {
		logger.WithFields(logger.Fields{"ref": ref.Name, "new": newName}).Warnf("rename failed, restoring source: %v", err)
		if restoreErr := r.updateRef(current, nil); restoreErr != nil {
			return nil, fmt.Errorf("rename ref %q: %w (restore failed: %v)", ref.Name, err, restoreErr)
		}
		return nil, fmt.Errorf("rename ref %q to %q: %w", ref.Name, newName, err)
	}

	if err := r.repointHead(ref.Name, newName); err != nil {
		return nil, fmt.Errorf("rename ref %q: %w", ref.Name, err)
	}
	logger.WithFields(logger.Fields{"ref": ref.Name, "new": newName, "force": force}).Debug("renamed reference")
	return renamed, nil
}

// repointHead rewrites a symbolic HEAD that named oldName to name newName.
func (r *Repo) repointHead(oldName, newName string) error {
	err := r.updateRef(refs.NewSymbolicReference(refs.HEAD, newName), func(old *refs.Reference) error {
		if old == nil || !old.IsSymbolic() || old.Symbolic != oldName {
			return errSkipUpdate
		}
		return nil
	})
	if errors.Is(err, errSkipUpdate) {
		return nil
	}
	return err
}

var errSkipUpdate = errors.New("skip")

// validateStoredName accepts HEAD and well-formed names under refs/.
func validateStoredName(name string) error {
	if name == refs.HEAD {
		return nil
	}
	if !strings.HasPrefix(name, refs.RefsPrefix) {
		return fmt.Errorf("%w %q: must be HEAD or start with %q", refs.ErrInvalidName, name, refs.RefsPrefix)
	}
	return refs.ValidateRefName(name)
}
