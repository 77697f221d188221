package refs

import (
	"errors"

	"github.com/odvcencio/gotref/pkg/object"
)

var (
	ErrNotFound     = errors.New("reference not found")
	ErrExists       = errors.New("reference already exists")
	ErrInvalidName  = errors.New("invalid reference name")
	ErrSymlinkDepth = errors.New("symbolic reference chain too deep")

	ErrObjectNotFound = object.ErrNotFound
	ErrTypeMismatch   = object.ErrTypeMismatch
)
