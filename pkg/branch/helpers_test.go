package branch

import (
	"errors"
	"testing"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
	"github.com/odvcencio/gotref/pkg/repo"
)

// newFixture returns a got repository whose main branch (HEAD) holds one
// commit, and a collection over it.
func newFixture(t *testing.T) (*repo.Repo, *Collection, object.Hash) {
	t.Helper()
	r, err := repo.Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	h, err := r.Commit("initial", "test-author")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return r, New(r), h
}

func mustCreateRef(t *testing.T, r *repo.Repo, name string, target object.Hash) {
	t.Helper()
	if _, err := r.CreateReference(name, target, false); err != nil {
		t.Fatalf("CreateReference(%s): %v", name, err)
	}
}

func mustLookupBranch(t *testing.T, c *Collection, id Identifier) *Branch {
	t.Helper()
	ref, err := c.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%v): %v", id, err)
	}
	if ref == nil {
		t.Fatalf("Lookup(%v) = nil", id)
	}
	b, ok := ref.Branch()
	if !ok {
		t.Fatalf("Lookup(%v) = %s, not a branch", id, ref.CanonicalName())
	}
	return b
}

var errInjected = errors.New("injected store failure")

// faultStore wraps a Store, records reference probes and cursor traffic, and
// fails on demand.
type faultStore struct {
	refs.Store

	probes      []string
	failLookup  string // LookupReference of this name fails with errInjected
	failNextAt  int    // Next fails with errInjected on this call (1-based), 0 = never
	iterOpened  int
	iterClosed  int
	failRenames bool
	failConfig  bool
}

func (s *faultStore) LookupReference(name string) (*refs.Reference, error) {
	s.probes = append(s.probes, name)
	if name == s.failLookup {
		return nil, errInjected
	}
	return s.Store.LookupReference(name)
}

func (s *faultStore) RenameReference(ref *refs.Reference, newName string, force bool) (*refs.Reference, error) {
	if s.failRenames {
		return nil, errInjected
	}
	return s.Store.RenameReference(ref, newName, force)
}

func (s *faultStore) RenameBranchConfig(oldBranch, newBranch string) error {
	if s.failConfig {
		return errInjected
	}
	return s.Store.RenameBranchConfig(oldBranch, newBranch)
}

func (s *faultStore) RemoveBranchConfig(branch string) error {
	if s.failConfig {
		return errInjected
	}
	return s.Store.RemoveBranchConfig(branch)
}

func (s *faultStore) IterateReferences(filter refs.BranchType) (refs.ReferenceIter, error) {
	it, err := s.Store.IterateReferences(filter)
	if err != nil {
		return nil, err
	}
	s.iterOpened++
	return &faultIter{ReferenceIter: it, store: s}, nil
}

type faultIter struct {
	refs.ReferenceIter
	store  *faultStore
	calls  int
	closed bool
}

func (it *faultIter) Next() (*refs.Reference, refs.BranchType, error) {
	it.calls++
	if it.calls == it.store.failNextAt {
		return nil, 0, errInjected
	}
	return it.ReferenceIter.Next()
}

func (it *faultIter) Close() error {
	if !it.closed {
		it.closed = true
		it.store.iterClosed++
	}
	return it.ReferenceIter.Close()
}
