package approval

import "errors"

var (
	// ErrApprovalNotFound is returned when no matching approval exists.
	ErrApprovalNotFound = errors.New("approval.repository: approval not found")

	// ErrBuildQuery is returned when SQL building fails.
	ErrBuildQuery = errors.New("approval.repository: failed to build query")

	// ErrExecQuery is returned when query execution fails.
	ErrExecQuery = errors.New("approval.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("approval.repository: failed to scan row")
)
