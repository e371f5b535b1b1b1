package create_work_order

import "errors"

var (
	// ErrSlotNotFound is returned when a requested slot does not exist.
	ErrSlotNotFound = errors.New("create_work_order: slot not found")

	// ErrAllItemsConflicted is returned when every requested line was skipped.
	ErrAllItemsConflicted = errors.New("create_work_order: no item could be reserved")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("create_work_order: internal error")
)
