package releaseorder

import "errors"

var (
	// ErrReleaseOrderNotFound is returned when the release order does not exist.
	ErrReleaseOrderNotFound = errors.New("releaseorder.repository: release order not found")

	// ErrBuildQuery is returned when SQL building fails.
	ErrBuildQuery = errors.New("releaseorder.repository: failed to build query")

	// ErrExecQuery is returned when query execution fails.
	ErrExecQuery = errors.New("releaseorder.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("releaseorder.repository: failed to scan row")
)
