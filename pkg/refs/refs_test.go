package refs

import (
	"errors"
	"testing"
)

func TestIsQualified(t *testing.T) {
	cases := map[string]bool{
		"refs/heads/main":          true,
		"refs/remotes/origin/main": true,
		"HEAD":                     true,
		"head":                     false,
		"main":                     false,
		"origin/main":              false,
		"refs/tags/v1":             false,
		"refs/headsx":              false,
	}
	for name, want := range cases {
		if got := IsQualified(name); got != want {
			t.Errorf("IsQualified(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestShorthandAndBranchType(t *testing.T) {
	cases := []struct {
		name     string
		short    string
		typ      BranchType
		isBranch bool
	}{
		{"refs/heads/feature/x", "feature/x", Local, true},
		{"refs/remotes/origin/main", "origin/main", Remote, true},
		{"refs/tags/v1.0", "v1.0", 0, false},
		{"refs/notes/commits", "notes/commits", 0, false},
		{"HEAD", "HEAD", 0, false},
	}
	for _, c := range cases {
		if got := Shorthand(c.name); got != c.short {
			t.Errorf("Shorthand(%q) = %q, want %q", c.name, got, c.short)
		}
		typ, ok := BranchTypeOf(c.name)
		if typ != c.typ || ok != c.isBranch {
			t.Errorf("BranchTypeOf(%q) = %v, %v", c.name, typ, ok)
		}
	}
}

func TestBranchTypeString(t *testing.T) {
	if Local.String() != "local" || Remote.String() != "remote" || AllBranches.String() != "all" {
		t.Fatal("unexpected BranchType strings")
	}
	if BranchType(8).String() != "unknown" {
		t.Fatal("out-of-range BranchType should be unknown")
	}
}

func TestValidateBranchName(t *testing.T) {
	valid := []string{"main", "feature/login", "release-1.2", "fix_bug", "a/b/c"}
	for _, name := range valid {
		if err := ValidateBranchName(name); err != nil {
			t.Errorf("ValidateBranchName(%q): %v", name, err)
		}
	}

	invalid := []string{
		"", "HEAD", "-dash", "@", "a..b", "a b", "a~1", "a^", "a:b", "a?", "a*", "a[",
		"a\\b", "/lead", "trail/", "a//b", "end.", ".hidden", "a/.dot", "x.lock",
		"a/b.lock/c", "a@{1}", "tab\tname",
	}
	for _, name := range invalid {
		if err := ValidateBranchName(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateBranchName(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestReferenceConstructors(t *testing.T) {
	direct := NewHashReference("refs/heads/main", "abc")
	if direct.IsSymbolic() || direct.Target != "abc" {
		t.Errorf("direct ref = %+v", direct)
	}
	sym := NewSymbolicReference(HEAD, "refs/heads/main")
	if !sym.IsSymbolic() || sym.Symbolic != "refs/heads/main" {
		t.Errorf("symbolic ref = %+v", sym)
	}
}
