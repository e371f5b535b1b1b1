package conflicts

import "errors"

var (
	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("conflicts: internal error")
)
