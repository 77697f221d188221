package branch

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/odvcencio/gotref/pkg/refs"
)

// Filter restricts iteration to one or both branch namespaces. The zero
// value selects both.
type Filter int

const (
	FilterAll Filter = iota
	FilterLocal
	FilterRemote
)

// ParseFilter maps "local", "remote", "all" or "" to a Filter.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "local":
		return FilterLocal, nil
	case "remote":
		return FilterRemote, nil
	}
	return 0, &ContractError{Op: "parse filter", Err: fmt.Errorf("%w: %q", ErrInvalidFilter, s)}
}

func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterLocal:
		return "local"
	case FilterRemote:
		return "remote"
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

func (f Filter) branchType() (refs.BranchType, error) {
	switch f {
	case FilterAll:
		return refs.AllBranches, nil
	case FilterLocal:
		return refs.Local, nil
	case FilterRemote:
		return refs.Remote, nil
	}
	return 0, &ContractError{Op: "iterate branches", Err: fmt.Errorf("%w: %s", ErrInvalidFilter, f)}
}

// Action is returned by iteration callbacks.
type Action int

const (
	Continue Action = iota
	Stop
)

// Each calls fn for every branch selected by filter, in store order, until
// fn returns Stop. The store cursor is closed on every exit path, including
// a panic in fn.
func (c *Collection) Each(filter Filter, fn func(*Branch) Action) error {
	return c.walk(filter, func(ref *refs.Reference, typ refs.BranchType) Action {
		return fn(newBranch(c.store, ref, typ))
	})
}

// EachName is Each over branch shorthands ("main", "origin/main").
func (c *Collection) EachName(filter Filter, fn func(string) Action) error {
	return c.walk(filter, func(ref *refs.Reference, _ refs.BranchType) Action {
		return fn(refs.Shorthand(ref.Name))
	})
}

// All returns a lazy sequence of the branches selected by filter. Nothing is
// read until the sequence is ranged over; each range opens a fresh cursor, so
// the sequence can be driven more than once. An invalid filter or a store
// failure is yielded as the final error.
func (c *Collection) All(filter Filter) iter.Seq2[*Branch, error] {
	return func(yield func(*Branch, error) bool) {
		stopped := false
		err := c.Each(filter, func(b *Branch) Action {
			if !yield(b, nil) {
				stopped = true
				return Stop
			}
			return Continue
		})
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

// Names is All over branch shorthands.
func (c *Collection) Names(filter Filter) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false
		err := c.EachName(filter, func(name string) Action {
			if !yield(name, nil) {
				stopped = true
				return Stop
			}
			return Continue
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

func (c *Collection) walk(filter Filter, visit func(*refs.Reference, refs.BranchType) Action) (err error) {
	typ, err := filter.branchType()
	if err != nil {
		return err
	}
	it, err := c.store.IterateReferences(typ)
	if err != nil {
		return fmt.Errorf("iterate branches: %w", err)
	}
	defer func() {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("iterate branches: close: %w", cerr)
		}
	}()

	for {
		ref, refType, err := it.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("iterate branches: %w", err)
		}
		if visit(ref, refType) == Stop {
			return nil
		}
	}
}
