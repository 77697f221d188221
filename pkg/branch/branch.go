package branch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// Branch is a Ref in refs/heads/, refs/remotes/ or HEAD itself.
type Branch struct {
	Ref
}

func newBranch(store refs.Store, ref *refs.Reference, typ refs.BranchType) *Branch {
	return &Branch{Ref: Ref{store: store, ref: ref, kind: KindBranch, typ: typ}}
}

// Type reports whether b is a local or a remote-tracking branch. HEAD is
// local.
func (b *Branch) Type() refs.BranchType { return b.typ }

// Name is the branch shorthand: "main" or "origin/main".
func (b *Branch) Name() string { return b.Shorthand() }

// Tip follows b to a direct object id and returns that object.
func (b *Branch) Tip() (*refs.Object, error) {
	direct, err := b.store.ResolveReference(b.ref)
	if err != nil {
		return nil, fmt.Errorf("tip of %s: %w", b.ref.Name, err)
	}
	obj, err := b.store.LookupObject(direct.Target, object.TypeAny)
	if err != nil {
		return nil, fmt.Errorf("tip of %s: %w", b.ref.Name, err)
	}
	return obj, nil
}

// TipCommit returns the id of the commit b points at, failing with
// refs.ErrTypeMismatch when the tip is some other kind of object.
func (b *Branch) TipCommit() (object.Hash, error) {
	direct, err := b.store.ResolveReference(b.ref)
	if err != nil {
		return "", fmt.Errorf("tip of %s: %w", b.ref.Name, err)
	}
	if _, err := b.store.LookupObject(direct.Target, object.TypeCommit); err != nil {
		return "", fmt.Errorf("tip of %s: %w", b.ref.Name, err)
	}
	return direct.Target, nil
}

// Remote returns the remote b belongs to. For a remote-tracking branch that
// is the remote named by the first component of its shorthand; for a local
// branch it is the configured upstream remote. Missing configuration yields
// nil and no error.
func (b *Branch) Remote() (*refs.RemoteInfo, error) {
	var name string
	if b.typ == refs.Remote {
		name, _, _ = strings.Cut(b.Shorthand(), "/")
	} else {
		remote, _, err := b.store.Upstream(b.localName())
		if err != nil {
			return nil, fmt.Errorf("remote of %s: %w", b.ref.Name, err)
		}
		name = remote
	}
	if name == "" || name == "." {
		return nil, nil
	}
	remote, err := b.store.Remote(name)
	if errors.Is(err, refs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("remote of %s: %w", b.ref.Name, err)
	}
	return remote, nil
}

// Upstream returns the branch a local branch tracks: refs/remotes/<remote>/<x>
// for a configured remote, or the local branch itself when the remote is ".".
// It returns nil when nothing is configured or the tracking ref is absent.
func (b *Branch) Upstream() (*Branch, error) {
	if b.typ != refs.Local {
		return nil, fmt.Errorf("upstream of %s: %w", b.ref.Name, ErrNotLocalBranch)
	}
	remote, merge, err := b.store.Upstream(b.localName())
	if err != nil {
		return nil, fmt.Errorf("upstream of %s: %w", b.ref.Name, err)
	}
	if remote == "" || merge == "" {
		return nil, nil
	}

	name := merge
	if remote != "." {
		name = refs.RemoteName(remote + "/" + strings.TrimPrefix(merge, refs.HeadsPrefix))
	}
	ref, err := b.store.LookupReference(name)
	if errors.Is(err, refs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("upstream of %s: %w", b.ref.Name, err)
	}
	typ, ok := refs.BranchTypeOf(ref.Name)
	if !ok {
		return nil, fmt.Errorf("upstream of %s: %w: %s", b.ref.Name, ErrNotBranch, ref.Name)
	}
	return newBranch(b.store, ref, typ), nil
}

// IsHead reports whether HEAD currently points at b.
func (b *Branch) IsHead() (bool, error) {
	if b.ref.Name == refs.HEAD {
		return true, nil
	}
	return isHead(b.store, b.ref.Name)
}

// localName maps b to the short name its branch configuration is stored
// under. HEAD maps to the branch it points at.
func (b *Branch) localName() string {
	if b.ref.Name == refs.HEAD {
		if b.ref.IsSymbolic() && strings.HasPrefix(b.ref.Symbolic, refs.HeadsPrefix) {
			return strings.TrimPrefix(b.ref.Symbolic, refs.HeadsPrefix)
		}
		return ""
	}
	return b.Shorthand()
}

func isHead(store refs.Store, canonical string) (bool, error) {
	head, err := store.LookupReference(refs.HEAD)
	if errors.Is(err, refs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return head.IsSymbolic() && head.Symbolic == canonical, nil
}
