package main

import (
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/odvcencio/gotref/pkg/branch"
	"github.com/odvcencio/gotref/pkg/gitstore"
	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
	"github.com/odvcencio/gotref/pkg/repo"
)

// repository is the surface the CLI needs beyond refs.Store. Both the got
// repository and the git adapter provide it.
type repository interface {
	refs.Store
	Commit(message, author string) (object.Hash, error)
	CommitSummary(id object.Hash) (author, message string, err error)
	SetRemote(name, url string) error
	RemoteNames() ([]string, error)
	CreateTag(name string, target object.Hash, force bool) error
	DeleteTag(name string) error
	ListTags() ([]string, error)
}

var (
	_ repository = (*repo.Repo)(nil)
	_ repository = (*gitstore.Store)(nil)
)

func newContainer(opts *globalOptions) (*dig.Container, error) {
	container := dig.New()
	providers := []any{
		func() *globalOptions { return opts },
		openRepository,
		func(r repository) refs.Store { return r },
		branch.New,
	}
	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return nil, err
		}
	}
	return container, nil
}

// invoke opens the repository selected by opts and calls fn with whatever
// it asks for: repository, refs.Store or *branch.Collection.
func invoke(opts *globalOptions, fn any) error {
	container, err := newContainer(opts)
	if err != nil {
		return err
	}
	return dig.RootCause(container.Invoke(fn))
}

func openRepository(opts *globalOptions) (repository, error) {
	path := opts.repoPath
	backend := opts.backend
	if backend == backendAuto {
		detected, err := detectBackend(path)
		if err != nil {
			return nil, err
		}
		backend = detected
	}
	logger.WithFields(logger.Fields{"path": path, "backend": backend}).Debug("opening repository")

	switch backend {
	case backendGot:
		return repo.Open(path)
	case backendGit:
		return gitstore.Open(path)
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// detectBackend walks up from path and reports the first repository kind
// found. A directory holding both prefers got.
func detectBackend(path string) (string, error) {
	cur, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for {
		if isDir(filepath.Join(cur, ".got")) {
			return backendGot, nil
		}
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return backendGit, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", fmt.Errorf("not a got or git repository (or any parent up to /): %s", path)
		}
		cur = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
