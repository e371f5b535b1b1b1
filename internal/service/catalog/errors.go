package catalog

import "errors"

var (
	// ErrSlotNotFound is returned when the slot does not exist.
	ErrSlotNotFound = errors.New("catalog: slot not found")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("catalog: internal error")
)
