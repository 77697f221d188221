package branch

// Identifier selects a reference for Lookup, Delete, Move and Exists. The set
// is closed: a Name, or a handle (*Ref, *Branch) returned by an earlier call.
type Identifier interface {
	identifier()
}

// Name is a user-supplied identifier: a short name ("main", "origin/main"),
// a canonical name ("refs/heads/main") or "HEAD".
type Name string

func (Name) identifier() {}

func (*Ref) identifier() {}
