package workorders

import "errors"

var (
	// ErrWorkOrderNotFound is returned when the work order does not exist.
	ErrWorkOrderNotFound = errors.New("workorders: work order not found")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("workorders: internal error")
)
