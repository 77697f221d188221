package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

func TestTagCreateResolveAndList(t *testing.T) {
	r, head := initRepoWithCommit(t)

	if err := r.CreateTag("v1.0.0", head, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := r.CreateTag("release/2024", head, false); err != nil {
		t.Fatalf("CreateTag nested: %v", err)
	}

	resolved, err := r.ResolveRef(refs.TagsPrefix + "v1.0.0")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if resolved != head {
		t.Fatalf("resolved tag = %q, want %q", resolved, head)
	}

	tags, err := r.ListTags()
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "release/2024" || tags[1] != "v1.0.0" {
		t.Fatalf("ListTags = %v, want [release/2024 v1.0.0]", tags)
	}
}

func TestTagCreateExistingWithoutForceFails(t *testing.T) {
	r, head := initRepoWithCommit(t)

	if err := r.CreateTag("v1.0.0", head, false); err != nil {
		t.Fatalf("CreateTag first: %v", err)
	}
	if err := r.CreateTag("v1.0.0", head, false); err == nil {
		t.Fatalf("CreateTag second without force should fail")
	}
}

func TestTagCreateForceUpdatesTarget(t *testing.T) {
	r, h1 := initRepoWithCommit(t)
	if err := r.CreateTag("v1.0.0", h1, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	h2, err := r.Commit("second", "test-author")
	if err != nil {
		t.Fatalf("Commit h2: %v", err)
	}
	if err := r.CreateTag("v1.0.0", h2, true); err != nil {
		t.Fatalf("CreateTag force: %v", err)
	}
	resolved, err := r.ResolveRef(refs.TagsPrefix + "v1.0.0")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if resolved != h2 {
		t.Fatalf("resolved tag = %q, want %q", resolved, h2)
	}
}

func TestTagCreateRejectsMissingTarget(t *testing.T) {
	r := initRepo(t)
	missing := object.HashObject(object.TypeBlob, []byte("nope"))
	if err := r.CreateTag("v0", missing, false); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("CreateTag(missing) err = %v, want ErrNotFound", err)
	}
}

func TestTagDelete(t *testing.T) {
	r, head := initRepoWithCommit(t)
	if err := r.CreateTag("v1.0.0", head, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	if err := r.DeleteTag("v1.0.0"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	if _, err := r.ResolveRef(refs.TagsPrefix + "v1.0.0"); !errors.Is(err, refs.ErrNotFound) {
		t.Fatalf("ResolveRef after delete err = %v, want ErrNotFound", err)
	}
	if err := r.DeleteTag("v1.0.0"); err == nil {
		t.Fatal("DeleteTag on missing tag should fail")
	}
}
