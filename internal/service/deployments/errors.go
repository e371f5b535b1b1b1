package deployments

import "errors"

var (
	// ErrReleaseOrderNotFound is returned when the release order does not exist.
	ErrReleaseOrderNotFound = errors.New("deployments: release order not found")

	// ErrItemNotFound is returned when the item does not belong to the release order.
	ErrItemNotFound = errors.New("deployments: item not found on release order")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("deployments: internal error")
)
