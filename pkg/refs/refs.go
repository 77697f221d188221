// Package refs defines the reference-store contract that branch resolution
// is built on: reference and object values, namespace helpers, branch-name
// rules, and the Store interface implemented by pkg/repo and pkg/gitstore.
package refs

import (
	"strings"

	"github.com/odvcencio/gotref/pkg/object"
)

const (
	HEAD          = "HEAD"
	RefsPrefix    = "refs/"
	HeadsPrefix   = "refs/heads/"
	RemotesPrefix = "refs/remotes/"
	TagsPrefix    = "refs/tags/"
)

// MaxSymbolicDepth bounds how many symbolic hops ResolveReference follows.
const MaxSymbolicDepth = 5

// BranchType selects branch namespaces. Values combine as a bitmask.
type BranchType int

const (
	Local  BranchType = 1 << iota // refs/heads/
	Remote                        // refs/remotes/

	AllBranches = Local | Remote
)

func (t BranchType) String() string {
	switch t {
	case Local:
		return "local"
	case Remote:
		return "remote"
	case AllBranches:
		return "all"
	default:
		return "unknown"
	}
}

// Reference is a named pointer. Exactly one of Target and Symbolic is set.
type Reference struct {
	Name     string
	Target   object.Hash // direct object id
	Symbolic string      // name of another reference
}

// NewHashReference creates a direct reference to an object.
func NewHashReference(name string, target object.Hash) *Reference {
	return &Reference{Name: name, Target: target}
}

// NewSymbolicReference creates a symbolic reference to another reference.
func NewSymbolicReference(name, target string) *Reference {
	return &Reference{Name: name, Symbolic: target}
}

// IsSymbolic reports whether r points at another reference name.
func (r *Reference) IsSymbolic() bool {
	return r.Symbolic != ""
}

// Object is a raw object as returned by a Store lookup.
type Object struct {
	ID   object.Hash
	Type object.ObjectType
	Data []byte
}

// RemoteInfo is a configured remote repository.
type RemoteInfo struct {
	Name string
	URLs []string
}

// LocalName returns the canonical name of the local branch short.
func LocalName(short string) string {
	return HeadsPrefix + short
}

// RemoteName returns the canonical name of the remote-tracking branch short,
// e.g. "origin/main" -> "refs/remotes/origin/main".
func RemoteName(short string) string {
	return RemotesPrefix + short
}

// IsQualified reports whether name is already a fully-qualified branch
// reference name or exactly HEAD.
func IsQualified(name string) bool {
	return strings.HasPrefix(name, HeadsPrefix) ||
		strings.HasPrefix(name, RemotesPrefix) ||
		name == HEAD
}

// BranchTypeOf classifies a canonical name. The second result is false for
// names outside both branch namespaces (HEAD included).
func BranchTypeOf(name string) (BranchType, bool) {
	switch {
	case strings.HasPrefix(name, HeadsPrefix):
		return Local, true
	case strings.HasPrefix(name, RemotesPrefix):
		return Remote, true
	default:
		return 0, false
	}
}

// Shorthand strips the namespace prefix from a canonical name:
// refs/heads/x -> x, refs/remotes/o/x -> o/x, refs/tags/v1 -> v1,
// refs/other/y -> other/y.
func Shorthand(name string) string {
	for _, prefix := range []string{HeadsPrefix, RemotesPrefix, TagsPrefix, RefsPrefix} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}
