package repo

import (
	"sync/atomic"

	"github.com/odvcencio/gotref/pkg/object"
	"github.com/odvcencio/gotref/pkg/refs"
)

// Repo represents an opened Got repository. It implements refs.Store over
// the .got/ directory: loose ref files under refs/, HEAD, config.toml and
// the content-addressed object store.
type Repo struct {
	RootDir string        // working directory root
	GotDir  string        // .got/ directory
	Store   *object.Store // content-addressed object store

	openIters atomic.Int64
}

var _ refs.Store = (*Repo)(nil)

// OpenIterators reports how many reference cursors are currently open.
func (r *Repo) OpenIterators() int64 {
	return r.openIters.Load()
}
