package deployment

import "errors"

var (
	// ErrDeploymentNotFound is returned when no matching deployment exists.
	ErrDeploymentNotFound = errors.New("deployment.repository: deployment not found")

	// ErrBuildQuery is returned when SQL building fails.
	ErrBuildQuery = errors.New("deployment.repository: failed to build query")

	// ErrExecQuery is returned when query execution fails.
	ErrExecQuery = errors.New("deployment.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("deployment.repository: failed to scan row")
)
