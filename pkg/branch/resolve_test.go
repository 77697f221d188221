package branch

import (
	"errors"
	"slices"
	"testing"

	"github.com/odvcencio/gotref/pkg/refs"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"main", []string{"refs/heads/main", "refs/remotes/main", "refs/main"}},
		{"origin/main", []string{"refs/heads/origin/main", "refs/remotes/origin/main", "refs/origin/main"}},
		{"tags/v1", []string{"refs/heads/tags/v1", "refs/remotes/tags/v1", "refs/tags/v1"}},
		{"refs/heads/main", []string{"refs/heads/main"}},
		{"refs/remotes/origin/main", []string{"refs/remotes/origin/main"}},
		{"HEAD", []string{"HEAD"}},
	}
	for _, tt := range tests {
		if got := candidates(tt.name); !slices.Equal(got, tt.want) {
			t.Errorf("candidates(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLookup_PrefersLocalOverRemote(t *testing.T) {
	r, c, h := newFixture(t)
	mustCreateRef(t, r, "refs/heads/topic", h)
	mustCreateRef(t, r, "refs/remotes/topic", h)

	b := mustLookupBranch(t, c, Name("topic"))
	if b.CanonicalName() != "refs/heads/topic" || b.Type() != refs.Local {
		t.Fatalf("Lookup(topic) = %s (%v), want local refs/heads/topic", b.CanonicalName(), b.Type())
	}
}

func TestLookup_FallsBackToRemoteThenGeneric(t *testing.T) {
	r, c, h := newFixture(t)
	mustCreateRef(t, r, "refs/remotes/origin/topic", h)
	if err := r.CreateTag("v1.0", h, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	b := mustLookupBranch(t, c, Name("origin/topic"))
	if b.CanonicalName() != "refs/remotes/origin/topic" || b.Type() != refs.Remote {
		t.Fatalf("Lookup(origin/topic) = %s (%v)", b.CanonicalName(), b.Type())
	}
	if b.Shorthand() != "origin/topic" {
		t.Fatalf("Shorthand = %q", b.Shorthand())
	}

	ref, err := c.Lookup(Name("tags/v1.0"))
	if err != nil || ref == nil {
		t.Fatalf("Lookup(tags/v1.0) = %v, %v", ref, err)
	}
	if ref.Kind() != KindGeneric || ref.CanonicalName() != "refs/tags/v1.0" {
		t.Fatalf("generic lookup = %s kind %v", ref.CanonicalName(), ref.Kind())
	}
	if _, ok := ref.Branch(); ok {
		t.Fatal("a tag must not expose the branch capability")
	}
}

func TestLookup_QualifiedNameIsExact(t *testing.T) {
	r, c, h := newFixture(t)
	mustCreateRef(t, r, "refs/remotes/origin/topic", h)

	store := &faultStore{Store: r}
	c = New(store)
	ref, err := c.Lookup(Name("refs/heads/origin/topic"))
	if err != nil || ref != nil {
		t.Fatalf("Lookup(refs/heads/origin/topic) = %v, %v, want nil, nil", ref, err)
	}
	if !slices.Equal(store.probes, []string{"refs/heads/origin/topic"}) {
		t.Fatalf("probes = %v, want a single exact lookup", store.probes)
	}
}

func TestLookup_Head(t *testing.T) {
	_, c, _ := newFixture(t)

	b := mustLookupBranch(t, c, Name("HEAD"))
	if b.CanonicalName() != "HEAD" || b.Type() != refs.Local {
		t.Fatalf("HEAD = %s (%v)", b.CanonicalName(), b.Type())
	}
	if !b.IsSymbolic() {
		t.Fatal("HEAD should be symbolic")
	}
}

func TestLookup_MissingIsNil(t *testing.T) {
	_, c, _ := newFixture(t)
	ref, err := c.Lookup(Name("nope"))
	if err != nil || ref != nil {
		t.Fatalf("Lookup(nope) = %v, %v, want nil, nil", ref, err)
	}
	ok, err := c.Exists(Name("nope"))
	if err != nil || ok {
		t.Fatalf("Exists(nope) = %v, %v", ok, err)
	}
}

func TestLookup_StoreErrorAbortsProbeSequence(t *testing.T) {
	r, _, _ := newFixture(t)
	store := &faultStore{Store: r, failLookup: "refs/remotes/topic"}
	c := New(store)

	if _, err := c.Lookup(Name("topic")); !errors.Is(err, errInjected) {
		t.Fatalf("Lookup err = %v, want injected failure", err)
	}
	if !slices.Equal(store.probes, []string{"refs/heads/topic", "refs/remotes/topic"}) {
		t.Fatalf("probes = %v, generic fallback must not run after a store error", store.probes)
	}
	if _, err := c.Exists(Name("topic")); !errors.Is(err, errInjected) {
		t.Fatalf("Exists err = %v, want injected failure", err)
	}
}

func TestLookup_ByHandleSkipsDisambiguation(t *testing.T) {
	r, c, h := newFixture(t)
	mustCreateRef(t, r, "refs/remotes/origin/topic", h)
	handle := mustLookupBranch(t, c, Name("origin/topic"))

	store := &faultStore{Store: r}
	c = New(store)
	ref, err := c.Lookup(handle)
	if err != nil || ref == nil {
		t.Fatalf("Lookup(handle) = %v, %v", ref, err)
	}
	if !ref.Equal(handle) {
		t.Fatalf("Lookup(handle) = %s, want %s", ref.CanonicalName(), handle.CanonicalName())
	}
	if !slices.Equal(store.probes, []string{"refs/remotes/origin/topic"}) {
		t.Fatalf("probes = %v", store.probes)
	}

	// Handles taken from Lookup work too, and go stale after deletion.
	generic, err := c.Lookup(Name("refs/remotes/origin/topic"))
	if err != nil || generic == nil {
		t.Fatalf("Lookup: %v", err)
	}
	if err := c.Delete(generic); err != nil {
		t.Fatalf("Delete(handle): %v", err)
	}
	if ok, err := c.Exists(handle); err != nil || ok {
		t.Fatalf("Exists(stale handle) = %v, %v", ok, err)
	}
}

func TestResolve_InvalidIdentifier(t *testing.T) {
	_, c, _ := newFixture(t)

	for _, id := range []Identifier{nil, (*Ref)(nil), (*Branch)(nil), &Ref{}} {
		_, err := c.Lookup(id)
		if !errors.Is(err, ErrTypeContract) || !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("Lookup(%#v) err = %v, want type contract error", id, err)
		}
		var ce *ContractError
		if !errors.As(err, &ce) || ce.Op != "lookup" {
			t.Errorf("Lookup(%#v) err = %#v, want *ContractError for lookup", id, err)
		}
	}
	if _, err := c.Exists(nil); !errors.Is(err, ErrTypeContract) {
		t.Errorf("Exists(nil) err = %v", err)
	}
	if err := c.Delete(nil); !errors.Is(err, ErrTypeContract) {
		t.Errorf("Delete(nil) err = %v", err)
	}
	if _, err := c.Move(nil, "x", false); !errors.Is(err, ErrTypeContract) {
		t.Errorf("Move(nil) err = %v", err)
	}
}
