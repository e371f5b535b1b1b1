package workorder

import "errors"

var (
	// ErrWorkOrderNotFound is returned when the work order does not exist.
	ErrWorkOrderNotFound = errors.New("workorder.repository: work order not found")

	// ErrItemNotFound is returned when the work order item does not exist.
	ErrItemNotFound = errors.New("workorder.repository: item not found")

	// ErrBuildQuery is returned when SQL building fails.
	ErrBuildQuery = errors.New("workorder.repository: failed to build query")

	// ErrExecQuery is returned when query execution fails.
	ErrExecQuery = errors.New("workorder.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("workorder.repository: failed to scan row")
)
