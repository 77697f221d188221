package branch

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/odvcencio/gotref/pkg/refs"
)

// candidates returns the exact names probed for name, in order.
//
// Qualified names ("refs/heads/...", "refs/remotes/..." or "HEAD") are looked
// up as given. Anything else is tried as a local branch, then as a remote
// branch, then under "refs/" for tags and other namespaces.
func candidates(name string) []string {
	if refs.IsQualified(name) {
		return []string{name}
	}
	return []string{
		refs.LocalName(name),
		refs.RemoteName(name),
		refs.RefsPrefix + name,
	}
}

// resolve turns id into the reference it names. A miss on every candidate
// yields an error wrapping refs.ErrNotFound; any other Store error stops the
// probe sequence immediately.
func (c *Collection) resolve(op string, id Identifier) (*refs.Reference, error) {
	var handle *Ref
	switch v := id.(type) {
	case Name:
		return c.resolveName(string(v))
	case *Ref:
		handle = v
	case *Branch:
		if v != nil {
			handle = &v.Ref
		}
	}
	if handle == nil || handle.ref == nil || handle.ref.Name == "" {
		return nil, &ContractError{Op: op, Err: ErrInvalidIdentifier}
	}
	return c.lookup(handle.ref.Name, handle.ref.Name)
}

func (c *Collection) resolveName(name string) (*refs.Reference, error) {
	for _, candidate := range candidates(name) {
		ref, err := c.lookup(name, candidate)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, refs.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("branch %q: %w", name, refs.ErrNotFound)
}

func (c *Collection) lookup(identifier, candidate string) (*refs.Reference, error) {
	ref, err := c.store.LookupReference(candidate)
	logger.WithFields(logger.Fields{
		"identifier": identifier,
		"candidate":  candidate,
		"found":      err == nil,
	}).Debug("probe reference")
	return ref, err
}
