// Package gitstore implements refs.Store on top of a Git repository through
// go-git, so the branch layer can run against ordinary .git directories as
// well as got repositories.
package gitstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

const defaultBranch = "main"

// Store adapts a go-git repository. Reference and config mutations are
// serialized by an in-process mutex; go-git's storers do not lock.
type Store struct {
	repo *git.Repository

	mu        sync.Mutex
	openIters atomic.Int64
}

var _ refs.Store = (*Store)(nil)

// New wraps an already opened repository.
func New(repo *git.Repository) *Store {
	return &Store{repo: repo}
}

// Open opens the Git repository containing path.
func Open(path string) (*Store, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository %s: %w", path, err)
	}
	return New(repo), nil
}

// Init creates a non-bare Git repository at path with HEAD on main.
func Init(path string) (*Store, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("init git repository %s: %w", path, err)
	}
	return newWithDefaultHead(repo)
}

// NewMemory creates an empty repository held entirely in memory.
func NewMemory() (*Store, error) {
	repo, err := git.Init(memory.NewStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("init in-memory repository: %w", err)
	}
	return newWithDefaultHead(repo)
}

func newWithDefaultHead(repo *git.Repository) (*Store, error) {
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(defaultBranch))
	if err := repo.Storer.SetReference(head); err != nil {
		return nil, fmt.Errorf("set HEAD: %w", err)
	}
	return New(repo), nil
}

// Repository exposes the wrapped go-git repository.
func (s *Store) Repository() *git.Repository { return s.repo }

// OpenIterators reports how many reference cursors are currently open.
func (s *Store) OpenIterators() int64 { return s.openIters.Load() }

func toReference(ref *plumbing.Reference) *refs.Reference {
	name := ref.Name().String()
	if ref.Type() == plumbing.SymbolicReference {
		return refs.NewSymbolicReference(name, ref.Target().String())
	}
	return refs.NewHashReference(name, object.Hash(ref.Hash().String()))
}

func toPlumbing(ref *refs.Reference) (*plumbing.Reference, error) {
	name := plumbing.ReferenceName(ref.Name)
	if ref.IsSymbolic() {
		return plumbing.NewSymbolicReference(name, plumbing.ReferenceName(ref.Symbolic)), nil
	}
	h, err := toHash(ref.Target)
	if err != nil {
		return nil, err
	}
	return plumbing.NewHashReference(name, h), nil
}

func toHash(h object.Hash) (plumbing.Hash, error) {
	if !plumbing.IsHash(string(h)) {
		return plumbing.ZeroHash, fmt.Errorf("%w: %q is not a git object id", object.ErrInvalidHash, h)
	}
	return plumbing.NewHash(string(h)), nil
}

// validateStoredName accepts HEAD and well-formed names under refs/.
func validateStoredName(name string) error {
	if name == refs.HEAD {
		return nil
	}
	if !strings.HasPrefix(name, refs.RefsPrefix) {
		return fmt.Errorf("%w %q: must be HEAD or start with %q", refs.ErrInvalidName, name, refs.RefsPrefix)
	}
	return refs.ValidateRefName(name)
}

func notFound(err error, name string) error {
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return fmt.Errorf("%w: %s", refs.ErrNotFound, name)
	}
	return err
}
