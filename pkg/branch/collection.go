// Package branch resolves user-supplied branch identifiers to exact
// references and implements the branch operations (lookup, create, delete,
// move, existence and iteration) on top of a refs.Store.
package branch

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// Collection is the set of branches of one repository. It keeps no state
// beyond the store: every call re-resolves against the live references.
type Collection struct {
	store refs.Store
}

func New(store refs.Store) *Collection {
	return &Collection{store: store}
}

// Lookup resolves id. A missing reference yields nil and no error.
func (c *Collection) Lookup(id Identifier) (*Ref, error) {
	ref, err := c.resolve("lookup", id)
	if errors.Is(err, refs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return newRef(c.store, ref), nil
}

// Exists reports whether id resolves. Errors other than a miss are returned.
func (c *Collection) Exists(id Identifier) (bool, error) {
	_, err := c.resolve("exists", id)
	if errors.Is(err, refs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create points the local branch name at the commit target. Without force
// an existing branch is left untouched and refs.ErrExists is returned; with
// force the branch is repointed unless HEAD points at it.
func (c *Collection) Create(name string, target object.Hash, force bool) (*Branch, error) {
	if err := refs.ValidateBranchName(name); err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}
	if _, err := c.store.LookupObject(target, object.TypeCommit); err != nil {
		return nil, fmt.Errorf("create branch %q: target %s: %w", name, target, err)
	}

	canonical := refs.LocalName(name)
	if force {
		head, err := isHead(c.store, canonical)
		if err != nil {
			return nil, fmt.Errorf("create branch %q: %w", name, err)
		}
		if head {
			return nil, fmt.Errorf("create branch %q: %w: cannot force update", name, ErrCheckedOut)
		}
	}

	ref, err := c.store.CreateReference(canonical, target, force)
	if err != nil {
		return nil, fmt.Errorf("create branch %q: %w", name, err)
	}
	logger.WithFields(logger.Fields{"branch": canonical, "target": target.Short(), "force": force}).Debug("branch created")
	return newBranch(c.store, ref, refs.Local), nil
}

// Delete removes the branch id names, along with its branch configuration.
// Unlike Lookup, a missing branch is an error. Once the reference is gone a
// failure to drop the configuration is only logged.
func (c *Collection) Delete(id Identifier) error {
	ref, err := c.resolve("delete", id)
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	b, ok := newRef(c.store, ref).Branch()
	if !ok {
		return fmt.Errorf("delete branch %s: %w", ref.Name, ErrNotBranch)
	}
	head, err := b.IsHead()
	if err != nil {
		return fmt.Errorf("delete branch %s: %w", ref.Name, err)
	}
	if head {
		return fmt.Errorf("delete branch %s: %w", ref.Name, ErrCheckedOut)
	}

	if err := c.store.DeleteReference(ref); err != nil {
		return fmt.Errorf("delete branch %s: %w", ref.Name, err)
	}
	if b.Type() == refs.Local {
		if err := c.store.RemoveBranchConfig(b.Shorthand()); err != nil {
			logger.WithField("branch", ref.Name).WithError(err).Warn("branch deleted but its configuration was not removed")
		}
	}
	logger.WithField("branch", ref.Name).Debug("branch deleted")
	return nil
}

// Move renames the local branch id to newName. Without force an occupied
// newName yields refs.ErrExists and the source is left in place, including
// when newName is the current name. HEAD and the branch configuration follow
// the rename; a configuration failure after the rename is only logged.
func (c *Collection) Move(id Identifier, newName string, force bool) (*Branch, error) {
	ref, err := c.resolve("move", id)
	if err != nil {
		return nil, fmt.Errorf("move branch: %w", err)
	}
	if t, ok := refs.BranchTypeOf(ref.Name); !ok || t != refs.Local {
		return nil, fmt.Errorf("move branch %s: %w", ref.Name, ErrNotLocalBranch)
	}
	if err := refs.ValidateBranchName(newName); err != nil {
		return nil, fmt.Errorf("move branch %s: %w", ref.Name, err)
	}

	moved, err := c.store.RenameReference(ref, refs.LocalName(newName), force)
	if err != nil {
		return nil, fmt.Errorf("move branch %s: %w", ref.Name, err)
	}
	oldShort := refs.Shorthand(ref.Name)
	if oldShort != newName {
		if err := c.store.RenameBranchConfig(oldShort, newName); err != nil {
			logger.WithFields(logger.Fields{"branch": ref.Name, "new": moved.Name}).WithError(err).Warn("branch moved but its configuration was not renamed")
		}
	}
	logger.WithFields(logger.Fields{"branch": ref.Name, "new": moved.Name, "force": force}).Debug("branch moved")
	return newBranch(c.store, moved, refs.Local), nil
}

// Rename is Move.
func (c *Collection) Rename(id Identifier, newName string, force bool) (*Branch, error) {
	return c.Move(id, newName, force)
}
