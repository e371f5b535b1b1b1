package domain

import "time"

// DeploymentStatus is the state of a deployment record.
type DeploymentStatus string

const (
	DeploymentDeployed DeploymentStatus = "deployed"
)

// Deployment records that one work order item's creative has been placed live
// (IT) or physically processed (material team, magazine items). At most one
// deployed record exists per item; duplicates are suppressed at the storage
// layer. Records are never deleted.
type Deployment struct {
	ID              int64
	WorkOrderItemID int64
	ReleaseOrderID  int64
	DeployedBy      int64
	Status          DeploymentStatus
	DeployedAt      time.Time
}
