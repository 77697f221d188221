package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// run executes the CLI with args and returns combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "got %s\noutput:\n%s", strings.Join(args, " "), out)
	return out
}

// newRepoDir initializes a repository of the given backend with one commit.
func newRepoDir(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, "--backend", backend, "init", dir)
	mustRun(t, "--repo", dir, "commit", "-m", "initial", "--author", "tester")
	return dir
}

func TestInitDetectsBackend(t *testing.T) {
	gotDir := newRepoDir(t, backendGot)
	require.DirExists(t, filepath.Join(gotDir, ".got"))
	backend, err := detectBackend(gotDir)
	require.NoError(t, err)
	require.Equal(t, backendGot, backend)

	gitDir := newRepoDir(t, backendGit)
	require.DirExists(t, filepath.Join(gitDir, ".git"))
	sub := filepath.Join(gitDir, "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	backend, err = detectBackend(sub)
	require.NoError(t, err)
	require.Equal(t, backendGit, backend)

	_, err = run(t, "--repo", t.TempDir(), "branch")
	require.Error(t, err)
	_, err = run(t, "--backend", "svn", "version")
	require.Error(t, err)
}

func TestBranchLifecycle(t *testing.T) {
	for _, backend := range []string{backendGot, backendGit} {
		t.Run(backend, func(t *testing.T) {
			dir := newRepoDir(t, backend)

			out := mustRun(t, "--repo", dir, "branch", "create", "feature")
			require.Contains(t, out, "created branch feature")

			_, err := run(t, "--repo", dir, "branch", "create", "feature")
			require.ErrorIs(t, err, refs.ErrExists)

			out = mustRun(t, "--repo", dir, "branch")
			require.Equal(t, "  feature\n* main\n", out)

			mustRun(t, "--repo", dir, "branch", "exists", "feature")
			_, err = run(t, "--repo", dir, "branch", "exists", "nope")
			var exit *exitError
			require.ErrorAs(t, err, &exit)
			require.Equal(t, 1, exit.code)

			out = mustRun(t, "--repo", dir, "branch", "move", "feature", "topic")
			require.Contains(t, out, "renamed branch feature to topic")
			_, err = run(t, "--repo", dir, "branch", "exists", "feature")
			require.Error(t, err)

			mustRun(t, "--repo", dir, "branch", "delete", "topic")
			out = mustRun(t, "--repo", dir, "branch", "list")
			require.Equal(t, "* main\n", out)

			_, err = run(t, "--repo", dir, "branch", "delete", "main")
			require.Error(t, err)
		})
	}
}

func TestBranchListStructuredFormats(t *testing.T) {
	dir := newRepoDir(t, backendGot)
	mustRun(t, "--repo", dir, "branch", "create", "feature", "main")

	var infos []branchInfo
	out := mustRun(t, "--repo", dir, "branch", "list", "--local", "--format", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)
	require.Equal(t, "refs/heads/feature", infos[0].Canonical)
	require.Equal(t, "local", infos[0].Type)
	require.False(t, infos[0].Head)
	require.True(t, infos[1].Head)

	infos = nil
	out = mustRun(t, "--repo", dir, "branch", "list", "--remote", "--format", "yaml")
	require.NoError(t, yaml.Unmarshal([]byte(out), &infos))
	require.Empty(t, infos)

	_, err := run(t, "--repo", dir, "branch", "list", "--format", "xml")
	require.Error(t, err)
}

func TestBranchShowWithUpstream(t *testing.T) {
	dir := newRepoDir(t, backendGot)
	mustRun(t, "--repo", dir, "remote", "add", "origin", "https://example.com/alice/repo.got")
	out := mustRun(t, "--repo", dir, "remote")
	require.Equal(t, "origin\thttps://example.com/alice/repo.got\n", out)

	mustRun(t, "--repo", dir, "upstream", "set", "main", "origin")
	_, err := run(t, "--repo", dir, "upstream", "set", "main", "nowhere")
	require.ErrorIs(t, err, refs.ErrNotFound)

	var info branchInfo
	out = mustRun(t, "--repo", dir, "branch", "show", "main", "--format", "yaml")
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	require.Equal(t, "origin", info.Remote)
	require.True(t, info.Head)
	require.Empty(t, info.Upstream, "no refs/remotes/origin/main yet")

	out = mustRun(t, "--repo", dir, "branch", "show", "HEAD")
	require.Contains(t, out, "HEAD (local)")
	require.Contains(t, out, "-> refs/heads/main")

	mustRun(t, "--repo", dir, "upstream", "unset", "main")
	out = mustRun(t, "--repo", dir, "branch", "show", "main", "--format", "json")
	info = branchInfo{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Empty(t, info.Remote)

	_, err = run(t, "--repo", dir, "branch", "show", "missing")
	require.ErrorIs(t, err, refs.ErrNotFound)
}

func TestBranchShowTipAndRawTargets(t *testing.T) {
	for _, backend := range []string{backendGot, backendGit} {
		t.Run(backend, func(t *testing.T) {
			dir := newRepoDir(t, backend)

			out := mustRun(t, "--repo", dir, "branch", "show", "main")
			require.Contains(t, out, "commit:   initial (tester)")

			var info branchInfo
			out = mustRun(t, "--repo", dir, "branch", "show", "main", "--format", "json")
			require.NoError(t, json.Unmarshal([]byte(out), &info))
			require.Equal(t, "initial", info.Subject)
			require.NotEmpty(t, info.Target)

			mustRun(t, "--repo", dir, "branch", "create", "pinned", strings.ToUpper(info.Target))
			out = mustRun(t, "--repo", dir, "branch", "show", "pinned", "--format", "json")
			info = branchInfo{}
			require.NoError(t, json.Unmarshal([]byte(out), &info))
			require.Equal(t, "initial", info.Subject)

			_, err := run(t, "--repo", dir, "branch", "create", "bogus", "no-such-thing")
			require.ErrorIs(t, err, object.ErrInvalidHash)
		})
	}
}

func TestTagsResolveThroughGenericFallback(t *testing.T) {
	for _, backend := range []string{backendGot, backendGit} {
		t.Run(backend, func(t *testing.T) {
			dir := newRepoDir(t, backend)
			mustRun(t, "--repo", dir, "tag", "v1")
			require.Equal(t, "v1\n", mustRun(t, "--repo", dir, "tag"))

			out := mustRun(t, "--repo", dir, "branch", "show", "tags/v1")
			require.Contains(t, out, "refs/tags/v1 (reference)")

			mustRun(t, "--repo", dir, "branch", "create", "from-tag", "tags/v1")
			_, err := run(t, "--repo", dir, "branch", "delete", "tags/v1")
			require.Error(t, err)

			mustRun(t, "--repo", dir, "tag", "-d", "v1")
			require.Empty(t, mustRun(t, "--repo", dir, "tag"))
		})
	}
}

func TestLogFileReceivesDebugOutput(t *testing.T) {
	dir := newRepoDir(t, backendGot)
	logPath := filepath.Join(t.TempDir(), "logs", "got.log")

	mustRun(t, "--repo", dir, "--verbose", "--log-file", logPath, "branch", "exists", "main")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "probe reference")
}
