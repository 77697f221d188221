package branch

import "errors"

var (
	// ErrTypeContract matches every *ContractError.
	ErrTypeContract = errors.New("type contract violation")

	ErrInvalidIdentifier = errors.New("expected a branch name or a branch handle")
	ErrInvalidFilter     = errors.New("invalid branch filter, expected local, remote or all")

	ErrNotBranch      = errors.New("reference is not a branch")
	ErrNotLocalBranch = errors.New("not a local branch")
	ErrCheckedOut     = errors.New("branch is the current HEAD of the repository")
)

// ContractError reports an argument of the wrong shape: an identifier that
// is neither a Name nor a live handle, or an unknown Filter. It is never
// converted into a nil result.
type ContractError struct {
	Op  string
	Err error
}

func (e *ContractError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ContractError) Unwrap() error { return e.Err }

// Is lets callers match any contract error with errors.Is(err, ErrTypeContract).
func (e *ContractError) Is(target error) bool {
	return target == ErrTypeContract
}
