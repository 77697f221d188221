package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/gotref/pkg/refs"
)

// Config stores repository-local settings: named remotes and per-branch
// upstream tracking.
type Config struct {
	Remotes  map[string]RemoteConfig `toml:"remotes,omitempty"`
	Branches map[string]BranchConfig `toml:"branches,omitempty"`
}

type RemoteConfig struct {
	URL string `toml:"url"`
}

// BranchConfig records the upstream of a local branch: the remote name and
// the ref on that remote, e.g. "origin" and "refs/heads/main".
type BranchConfig struct {
	Remote string `toml:"remote,omitempty"`
	Merge  string `toml:"merge,omitempty"`
}

func (r *Repo) configPath() string {
	return filepath.Join(r.GotDir, "config.toml")
}

// ReadConfig reads .got/config.toml. Missing config returns an empty config.
func (r *Repo) ReadConfig() (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(r.configPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("read config: decode: %w", err)
		}
	}
	if cfg.Remotes == nil {
		cfg.Remotes = make(map[string]RemoteConfig)
	}
	if cfg.Branches == nil {
		cfg.Branches = make(map[string]BranchConfig)
	}
	return &cfg, nil
}

// WriteConfig atomically writes .got/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(r.GotDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

func (r *Repo) updateConfig(fn func(cfg *Config) error) error {
	cfg, err := r.ReadConfig()
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return r.WriteConfig(cfg)
}

// SetRemote stores/updates a named remote URL in repository config.
func (r *Repo) SetRemote(name, remoteURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("set remote: remote name is required")
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("set remote: %w: remote name %q contains '/'", refs.ErrInvalidName, name)
	}
	remoteURL = strings.TrimSpace(remoteURL)
	if remoteURL == "" {
		return fmt.Errorf("set remote: remote URL is required")
	}
	return r.updateConfig(func(cfg *Config) error {
		cfg.Remotes[name] = RemoteConfig{URL: remoteURL}
		return nil
	})
}

// Remote returns the configured remote with the given name.
func (r *Repo) Remote(name string) (*refs.RemoteInfo, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, err
	}
	rc, ok := cfg.Remotes[name]
	if !ok || strings.TrimSpace(rc.URL) == "" {
		return nil, fmt.Errorf("remote %q: %w", name, refs.ErrNotFound)
	}
	return &refs.RemoteInfo{Name: name, URLs: []string{rc.URL}}, nil
}

// RemoteNames lists configured remotes sorted alphabetically.
func (r *Repo) RemoteNames() ([]string, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cfg.Remotes))
	for name := range cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Upstream returns the upstream remote and merge ref of a local branch.
func (r *Repo) Upstream(branch string) (string, string, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", "", err
	}
	bc := cfg.Branches[branch]
	return bc.Remote, bc.Merge, nil
}

// SetUpstream records remote/merge as the upstream of a local branch.
func (r *Repo) SetUpstream(branch, remote, merge string) error {
	if err := refs.ValidateBranchName(branch); err != nil {
		return fmt.Errorf("set upstream: %w", err)
	}
	if remote == "" || merge == "" {
		return errors.New("set upstream: remote and merge ref are required")
	}
	return r.updateConfig(func(cfg *Config) error {
		cfg.Branches[branch] = BranchConfig{Remote: remote, Merge: merge}
		return nil
	})
}

// RenameBranchConfig moves the [branches.<old>] section to <new>.
func (r *Repo) RenameBranchConfig(oldBranch, newBranch string) error {
	return r.updateConfig(func(cfg *Config) error {
		bc, ok := cfg.Branches[oldBranch]
		if !ok {
			return nil
		}
		delete(cfg.Branches, oldBranch)
		cfg.Branches[newBranch] = bc
		return nil
	})
}

// RemoveBranchConfig drops the [branches.<name>] section, if any.
func (r *Repo) RemoveBranchConfig(branch string) error {
	return r.updateConfig(func(cfg *Config) error {
		delete(cfg.Branches, branch)
		return nil
	})
}
