package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

var ErrRefCASMismatch = errors.New("ref compare-and-swap mismatch")

const (
	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second

	defaultBranch = "main"
)

// Init creates a new Got repository at path. It creates the .got/ directory
// structure: HEAD, objects/, refs/heads/ and refs/remotes/. Returns an error
// if a .got/ directory already exists.
func Init(path string) (*Repo, error) {
	gotDir := filepath.Join(path, ".got")

	if _, err := os.Stat(gotDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", gotDir)
	}

	dirs := []string{
		filepath.Join(gotDir, "objects"),
		filepath.Join(gotDir, "refs", "heads"),
		filepath.Join(gotDir, "refs", "remotes"),
		filepath.Join(gotDir, "refs", "tags"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(gotDir, refs.HEAD)
	if err := os.WriteFile(headPath, []byte("ref: "+refs.LocalName(defaultBranch)+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	return &Repo{
		RootDir: path,
		GotDir:  gotDir,
		Store:   object.NewStore(gotDir),
	}, nil
}

// Open searches upward from path for a .got/ directory and opens the
// repository. Returns an error if no .got/ directory is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gotDir := filepath.Join(cur, ".got")
		info, err := os.Stat(gotDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				GotDir:  gotDir,
				Store:   object.NewStore(gotDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a got repository (or any parent up to /)")
		}
		cur = parent
	}
}

// Head reads .got/HEAD. If HEAD is symbolic it returns the ref path
// (e.g. "refs/heads/main"); otherwise the detached hash.
func (r *Repo) Head() (string, error) {
	ref, err := r.readRef(refs.HEAD)
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	if ref.IsSymbolic() {
		return ref.Symbolic, nil
	}
	return string(ref.Target), nil
}

// SetHead points HEAD at the local branch name (which need not exist yet).
func (r *Repo) SetHead(branch string) error {
	if err := refs.ValidateBranchName(branch); err != nil {
		return fmt.Errorf("set head: %w", err)
	}
	return r.updateRef(refs.NewSymbolicReference(refs.HEAD, refs.LocalName(branch)), nil)
}

func (r *Repo) refPath(name string) string {
	return filepath.Join(r.GotDir, filepath.FromSlash(name))
}

// readRef parses the ref file for name. Missing files (and directories that
// only hold nested refs) yield refs.ErrNotFound.
func (r *Repo) readRef(name string) (*refs.Reference, error) {
	path := r.refPath(name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
			return nil, fmt.Errorf("%w: %s", refs.ErrNotFound, name)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", refs.ErrNotFound, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", refs.ErrNotFound, name)
		}
		return nil, err
	}
	return parseRef(name, string(data))
}

func parseRef(name, content string) (*refs.Reference, error) {
	content = strings.TrimSpace(content)
	if target, ok := strings.CutPrefix(content, "ref: "); ok {
		return refs.NewSymbolicReference(name, strings.TrimSpace(target)), nil
	}
	if content == "" {
		return nil, fmt.Errorf("read ref %q: empty ref file", name)
	}
	return refs.NewHashReference(name, object.Hash(content)), nil
}

func formatRef(ref *refs.Reference) string {
	if ref.IsSymbolic() {
		return "ref: " + ref.Symbolic + "\n"
	}
	return string(ref.Target) + "\n"
}

// updateRef writes ref using lockfile + rename atomic semantics. check, when
// non-nil, is called with the current value (nil if absent) while the lock
// is held; a non-nil result aborts the write.
func (r *Repo) updateRef(ref *refs.Reference, check func(old *refs.Reference) error) error {
	name := ref.Name
	refPath := r.refPath(name)

	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		if isPathConflict(err) {
			return fmt.Errorf("update ref %q: %w: a parent path is a reference", name, refs.ErrExists)
		}
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}
	if info, err := os.Stat(refPath); err == nil && info.IsDir() {
		return fmt.Errorf("update ref %q: %w: references exist below this name", name, refs.ErrExists)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	if check != nil {
		old, err := r.readRef(name)
		if err != nil && !errors.Is(err, refs.ErrNotFound) {
			return fmt.Errorf("update ref %q: read old value: %w", name, err)
		}
		if err := check(old); err != nil {
			return fmt.Errorf("update ref %q: %w", name, err)
		}
	}

	if _, err := lockFile.WriteString(formatRef(ref)); err != nil {
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", name, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	cleanupLock = false
	return nil
}

// removeRef deletes the ref file for name under its lock, provided its
// current value still equals expected.
func (r *Repo) removeRef(expected *refs.Reference) error {
	name := expected.Name
	refPath := r.refPath(name)
	lockPath := refPath + ".lock"

	if _, err := r.readRef(name); err != nil {
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("delete ref %q: lock: %w", name, err)
	}
	_ = lockFile.Close()
	defer os.Remove(lockPath)

	current, err := r.readRef(name)
	if err != nil {
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	if !sameRef(current, expected) {
		return fmt.Errorf("delete ref %q: %w (expected %s, found %s)",
			name, ErrRefCASMismatch, strings.TrimSpace(formatRef(expected)), strings.TrimSpace(formatRef(current)))
	}
	if err := os.Remove(refPath); err != nil {
		return fmt.Errorf("delete ref %q: %w", name, err)
	}
	return nil
}

// pruneEmptyDirs removes now-empty parent directories of name up to, but
// not including, the namespace root (refs/heads, refs/remotes, ...).
func (r *Repo) pruneEmptyDirs(name string) {
	stop := filepath.Join(r.GotDir, "refs")
	dir := filepath.Dir(r.refPath(name))
	for dir != stop && strings.HasPrefix(dir, stop) {
		parent := filepath.Dir(dir)
		if parent == stop {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = parent
	}
}

// isPathConflict reports whether err comes from a ref file standing where a
// directory is needed, or the reverse.
func isPathConflict(err error) bool {
	return errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.EISDIR) || errors.Is(err, fs.ErrExist)
}

func sameRef(a, b *refs.Reference) bool {
	return a.Target == b.Target && a.Symbolic == b.Symbolic
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}
