package gitstore

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/odvcencio/gotref/pkg/refs"
)

func (s *Store) Remote(name string) (*refs.RemoteInfo, error) {
	remote, err := s.repo.Remote(name)
	if errors.Is(err, git.ErrRemoteNotFound) {
		return nil, fmt.Errorf("remote %q: %w", name, refs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("remote %q: %w", name, err)
	}
	cfg := remote.Config()
	return &refs.RemoteInfo{Name: cfg.Name, URLs: append([]string(nil), cfg.URLs...)}, nil
}

// SetRemote adds a remote with the default fetch refspec, or replaces the
// URL of an existing one.
func (s *Store) SetRemote(name, url string) error {
	if name == "" || url == "" {
		return errors.New("set remote: name and URL are required")
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("set remote: %w: remote name %q contains '/'", refs.ErrInvalidName, name)
	}
	return s.updateConfig(func(cfg *config.Config) error {
		if rc, ok := cfg.Remotes[name]; ok {
			rc.URLs = []string{url}
			return nil
		}
		cfg.Remotes[name] = &config.RemoteConfig{
			Name:  name,
			URLs:  []string{url},
			Fetch: []config.RefSpec{config.RefSpec(fmt.Sprintf(config.DefaultFetchRefSpec, name))},
		}
		return nil
	})
}

// RemoteNames lists configured remotes.
func (s *Store) RemoteNames() ([]string, error) {
	remotes, err := s.repo.Remotes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Config().Name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) Upstream(branch string) (string, string, error) {
	cfg, err := s.repo.Config()
	if err != nil {
		return "", "", fmt.Errorf("read git config: %w", err)
	}
	b, ok := cfg.Branches[branch]
	if !ok {
		return "", "", nil
	}
	return b.Remote, b.Merge.String(), nil
}

func (s *Store) SetUpstream(branch, remote, merge string) error {
	if err := refs.ValidateBranchName(branch); err != nil {
		return fmt.Errorf("set upstream: %w", err)
	}
	if remote == "" || merge == "" {
		return errors.New("set upstream: remote and merge ref are required")
	}
	return s.updateConfig(func(cfg *config.Config) error {
		cfg.Branches[branch] = &config.Branch{
			Name:   branch,
			Remote: remote,
			Merge:  plumbing.ReferenceName(merge),
		}
		return nil
	})
}

func (s *Store) RenameBranchConfig(oldBranch, newBranch string) error {
	return s.updateConfig(func(cfg *config.Config) error {
		b, ok := cfg.Branches[oldBranch]
		if !ok {
			return nil
		}
		delete(cfg.Branches, oldBranch)
		b.Name = newBranch
		cfg.Branches[newBranch] = b
		return nil
	})
}

func (s *Store) RemoveBranchConfig(branch string) error {
	return s.updateConfig(func(cfg *config.Config) error {
		delete(cfg.Branches, branch)
		return nil
	})
}

func (s *Store) updateConfig(fn func(cfg *config.Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.repo.Config()
	if err != nil {
		return fmt.Errorf("read git config: %w", err)
	}
	if err := fn(cfg); err != nil {
		return err
	}
	if err := s.repo.Storer.SetConfig(cfg); err != nil {
		return fmt.Errorf("write git config: %w", err)
	}
	return nil
}
