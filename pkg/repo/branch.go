package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gotref/pkg/refs"
)

// CurrentBranch reads HEAD and returns the branch name if HEAD is a symbolic
// ref (e.g. "ref: refs/heads/main" → "main"). If HEAD is detached (contains
// a raw hash), it returns "".
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if short, ok := strings.CutPrefix(head, refs.HeadsPrefix); ok {
		return short, nil
	}
	return "", nil
}
