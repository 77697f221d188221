package repo

import (
	"errors"
	"fmt"
	"time"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// Commit records a commit of the empty tree on top of HEAD and advances the
// branch HEAD points at (or a detached HEAD) with a compare-and-swap against
// the previous tip.
func (r *Repo) Commit(message, author string) (object.Hash, error) {
	treeHash, err := r.Store.WriteTree(&object.TreeObj{})
	if err != nil {
		return "", fmt.Errorf("commit: write tree: %w", err)
	}

	var parents []object.Hash
	parentHash, err := r.ResolveRef(refs.HEAD)
	switch {
	case err == nil:
		parents = append(parents, parentHash)
	case errors.Is(err, refs.ErrNotFound):
		// Unborn branch: first commit.
	default:
		return "", fmt.Errorf("commit: resolve HEAD: %w", err)
	}

	commitHash, err := r.Store.WriteCommit(&object.CommitObj{
		TreeHash:  treeHash,
		Parents:   parents,
		Author:    author,
		Timestamp: time.Now().Unix(),
		Message:   message,
	})
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	current, err := r.CurrentBranch()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	target := refs.HEAD
	if current != "" {
		target = refs.LocalName(current)
	}
	if err := r.UpdateRefCAS(target, commitHash, parentHash); err != nil {
		return "", fmt.Errorf("commit: update ref %q: %w", target, err)
	}
	return commitHash, nil
}

// CommitSummary returns the author and message of the commit id.
func (r *Repo) CommitSummary(id object.Hash) (author, message string, err error) {
	c, err := r.Store.ReadCommit(id)
	if err != nil {
		return "", "", fmt.Errorf("commit summary: %w", err)
	}
	return c.Author, c.Message, nil
}
