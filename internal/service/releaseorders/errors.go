package releaseorders

import "errors"

var (
	// ErrReleaseOrderNotFound is returned when the release order does not exist.
	ErrReleaseOrderNotFound = errors.New("releaseorders: release order not found")

	// ErrItemNotFound is returned when the work order item does not exist.
	ErrItemNotFound = errors.New("releaseorders: item not found")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("releaseorders: internal error")
)
