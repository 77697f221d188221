package object

import (
	"errors"
	"fmt"
	"strings"
)

// Hash is a lowercase hex-encoded object digest. Got repositories use
// 64-character SHA-256 digests; Git repositories use 40-character SHA-1.
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	// TypeAny matches every object type in lookups that take an expected type.
	TypeAny    ObjectType = ""
	TypeBlob   ObjectType = "blob"
	TypeTag    ObjectType = "tag"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

const (
	// Tree mode constants compatible with Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
)

var (
	ErrNotFound     = errors.New("object not found")
	ErrTypeMismatch = errors.New("object type mismatch")
	ErrInvalidHash  = errors.New("invalid object hash")
)

// ParseHash validates s as a full SHA-1 or SHA-256 hex digest.
func ParseHash(s string) (Hash, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 40 && len(s) != 64 {
		return "", fmt.Errorf("%w: %q", ErrInvalidHash, s)
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: %q", ErrInvalidHash, s)
		}
	}
	return Hash(s), nil
}

// IsZero reports whether h is empty or all zeros.
func (h Hash) IsZero() bool {
	return strings.Trim(string(h), "0") == ""
}

// Short returns the first 12 characters of h, for display.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// TreeEntry is one entry in a tree object.
type TreeEntry struct {
	Name  string
	Mode  string
	IsDir bool
	Hash  Hash
}

// TreeObj holds a sorted list of tree entries.
type TreeObj struct {
	Entries []TreeEntry // sorted by Name
}

// CommitObj represents a commit pointing to a tree with metadata.
type CommitObj struct {
	TreeHash  Hash
	Parents   []Hash
	Author    string
	Timestamp int64
	Message   string
}
