package branch

import (
	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// Kind discriminates the entities a resolution can produce.
type Kind int

const (
	// KindGeneric is a reference outside the branch namespaces, such as a
	// tag reached through the "refs/<name>" fallback.
	KindGeneric Kind = iota
	// KindBranch is a local branch, a remote-tracking branch or HEAD.
	KindBranch
)

func (k Kind) String() string {
	if k == KindBranch {
		return "branch"
	}
	return "reference"
}

// Ref is a read-only snapshot of one reference taken when it was resolved.
// It is never refreshed and goes stale once the reference is moved or
// deleted. Branch-only operations are reached through Branch.
type Ref struct {
	store refs.Store
	ref   *refs.Reference
	kind  Kind
	typ   refs.BranchType
}

func newRef(store refs.Store, ref *refs.Reference) *Ref {
	r := &Ref{store: store, ref: ref, kind: KindGeneric}
	if typ, ok := refs.BranchTypeOf(ref.Name); ok {
		r.kind, r.typ = KindBranch, typ
	} else if ref.Name == refs.HEAD {
		r.kind, r.typ = KindBranch, refs.Local
	}
	return r
}

func (r *Ref) Kind() Kind { return r.kind }

// CanonicalName returns the fully-qualified name, e.g. "refs/heads/main".
func (r *Ref) CanonicalName() string { return r.ref.Name }

// Shorthand returns the canonical name without its namespace prefix.
func (r *Ref) Shorthand() string { return refs.Shorthand(r.ref.Name) }

// Reference returns a copy of the underlying reference.
func (r *Ref) Reference() refs.Reference { return *r.ref }

// Target returns the direct object id, or "" for a symbolic reference.
func (r *Ref) Target() object.Hash { return r.ref.Target }

func (r *Ref) IsSymbolic() bool { return r.ref.IsSymbolic() }

// Equal reports whether other is an entity with the same canonical name.
// A Name never equals an entity.
func (r *Ref) Equal(other Identifier) bool {
	if r == nil {
		return false
	}
	switch o := other.(type) {
	case *Ref:
		return o != nil && o.ref.Name == r.ref.Name
	case *Branch:
		return o != nil && o.ref.Name == r.ref.Name
	default:
		return false
	}
}

// Branch returns the branch capability of r, if r is a branch.
func (r *Ref) Branch() (*Branch, bool) {
	if r.kind != KindBranch {
		return nil, false
	}
	return &Branch{Ref: *r}, true
}

func (r *Ref) String() string { return r.ref.Name }
