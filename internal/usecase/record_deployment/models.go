package record_deployment

import "time"

// Request identifies the item going live.
type Request struct {
	ReleaseOrderID int64
	ItemID         int64
	DeployerID     int64
}

// Response is the deployment record, existing or new.
type Response struct {
	DeploymentID   int64
	ItemID         int64
	ReleaseOrderID int64
	DeployedBy     int64
	DeployedAt     time.Time
	AlreadyExisted bool
	FullyDeployed  bool
}
