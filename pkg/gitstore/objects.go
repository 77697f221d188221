package gitstore

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	gitobject "github.com/go-git/go-git/v5/plumbing/object"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// LookupObject reads a loose or packed object. Data holds the raw git
// payload without the "<type> <size>\x00" header.
func (s *Store) LookupObject(id object.Hash, want object.ObjectType) (*refs.Object, error) {
	h, err := toHash(id)
	if err != nil {
		return nil, err
	}
	obj, err := s.repo.Storer.EncodedObject(plumbing.AnyObject, h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, fmt.Errorf("object %s: %w", id, object.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id, err)
	}

	typ := object.ObjectType(obj.Type().String())
	if want != object.TypeAny && typ != want {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", id, object.ErrTypeMismatch, typ, want)
	}

	r, err := obj.Reader()
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", id, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("object %s: read: %w", id, err)
	}
	return &refs.Object{ID: id, Type: typ, Data: data}, nil
}

// CommitSummary returns the author name and message of the commit id.
func (s *Store) CommitSummary(id object.Hash) (author, message string, err error) {
	h, err := toHash(id)
	if err != nil {
		return "", "", err
	}
	c, err := s.repo.CommitObject(h)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return "", "", fmt.Errorf("commit summary %s: %w", id, object.ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("commit summary %s: %w", id, err)
	}
	return c.Author.Name, c.Message, nil
}

// Commit records a commit of the empty tree on top of HEAD and advances the
// branch HEAD points at (or a detached HEAD).
func (s *Store) Commit(message, author string) (object.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.repo.Storer
	treeHash, err := s.writeObject(&gitobject.Tree{})
	if err != nil {
		return "", fmt.Errorf("commit: write tree: %w", err)
	}

	head, err := st.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("commit: read HEAD: %w", err)
	}
	target := head.Name()
	if head.Type() == plumbing.SymbolicReference {
		target = head.Target()
	}

	var parents []plumbing.Hash
	old, err := st.Reference(target)
	switch {
	case err == nil:
		parents = append(parents, old.Hash())
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		old = nil
	default:
		return "", fmt.Errorf("commit: resolve %s: %w", target, err)
	}

	sig := gitobject.Signature{Name: author, Email: author, When: time.Now()}
	commitHash, err := s.writeObject(&gitobject.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parents,
	})
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	if err := st.CheckAndSetReference(plumbing.NewHashReference(target, commitHash), old); err != nil {
		return "", fmt.Errorf("commit: update ref %q: %w", target, err)
	}
	return object.Hash(commitHash.String()), nil
}

type encoder interface {
	Encode(plumbing.EncodedObject) error
}

func (s *Store) writeObject(v encoder) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	if err := v.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return s.repo.Storer.SetEncodedObject(obj)
}
