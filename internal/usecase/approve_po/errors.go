package approve_po

import "errors"

var (
	// ErrWorkOrderNotFound is returned when the work order does not exist.
	ErrWorkOrderNotFound = errors.New("approve_po: work order not found")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("approve_po: internal error")
)
