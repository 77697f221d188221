package refs

import "github.com/odvcencio/gotref/pkg/object"

// Store is the reference and object database the branch layer delegates to.
// Mutations are atomic per call; no multi-call transaction is offered.
type Store interface {
	// LookupReference returns the reference stored under the exact name,
	// or an error wrapping ErrNotFound.
	LookupReference(name string) (*Reference, error)
	// ResolveReference follows symbolic references until a direct one is
	// reached, failing with ErrSymlinkDepth after MaxSymbolicDepth hops.
	ResolveReference(ref *Reference) (*Reference, error)
	// LookupObject reads an object, checking its type unless want is
	// object.TypeAny.
	LookupObject(id object.Hash, want object.ObjectType) (*Object, error)

	// CreateReference points name at target. Without force an existing
	// reference yields ErrExists and nothing is written.
	CreateReference(name string, target object.Hash, force bool) (*Reference, error)
	DeleteReference(ref *Reference) error
	// RenameReference moves ref to newName, keeping its target. Without
	// force an occupied newName yields ErrExists and ref is left in place.
	// A HEAD that pointed at ref is repointed at newName.
	RenameReference(ref *Reference, newName string, force bool) (*Reference, error)
	// IterateReferences opens a cursor over the branch namespaces selected
	// by filter. Callers must Close the cursor.
	IterateReferences(filter BranchType) (ReferenceIter, error)

	// Remote returns the named remote, or an error wrapping ErrNotFound.
	Remote(name string) (*RemoteInfo, error)
	// Upstream returns the configured remote and merge ref of a local
	// branch (short name). Both are empty when nothing is configured.
	Upstream(branch string) (remote, merge string, err error)
	SetUpstream(branch, remote, merge string) error
	RenameBranchConfig(oldBranch, newBranch string) error
	RemoveBranchConfig(branch string) error
}

// ReferenceIter is a cursor over references. Next returns io.EOF once the
// cursor is exhausted. Close releases the cursor and is safe to call twice.
type ReferenceIter interface {
	Next() (*Reference, BranchType, error)
	Close() error
}
