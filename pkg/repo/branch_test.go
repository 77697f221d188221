package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/gotref/pkg/refs"
)

func TestCurrentBranch_FollowsSetHead(t *testing.T) {
	r := initRepo(t)

	name, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if name != "main" {
		t.Fatalf("CurrentBranch = %q, want main", name)
	}

	if err := r.SetHead("feature/login"); err != nil {
		t.Fatalf("SetHead: %v", err)
	}
	name, err = r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if name != "feature/login" {
		t.Fatalf("CurrentBranch = %q, want feature/login", name)
	}
}

func TestCurrentBranch_DetachedHead(t *testing.T) {
	r, h := initRepoWithCommit(t)
	if err := r.updateRef(refs.NewHashReference(refs.HEAD, h), nil); err != nil {
		t.Fatalf("detach HEAD: %v", err)
	}
	name, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if name != "" {
		t.Fatalf("CurrentBranch on detached HEAD = %q, want empty", name)
	}
}

func TestSetHead_RejectsInvalidNames(t *testing.T) {
	r := initRepo(t)
	for _, name := range []string{"", "HEAD", "-dash", "a..b", "trailing/"} {
		if err := r.SetHead(name); !errors.Is(err, refs.ErrInvalidName) {
			t.Errorf("SetHead(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}
