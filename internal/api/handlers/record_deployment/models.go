package record_deployment

import (
	"time"

	recordDeployment "github.com/admedia/AMS-AdSalesService/internal/usecase/record_deployment"
)

// DeployRequest HTTP request model.
type DeployRequest struct {
	ItemID int64 `json:"itemId"`
}

// DeployResponse HTTP response model.
type DeployResponse struct {
	DeploymentID   int64     `json:"deploymentId"`
	ItemID         int64     `json:"itemId"`
	ReleaseOrderID int64     `json:"releaseOrderId"`
	DeployedBy     int64     `json:"deployedBy"`
	DeployedAt     time.Time `json:"deployedAt"`
	FullyDeployed  bool      `json:"fullyDeployed"`
}

// FromUseCaseResponse converts the use case result to the HTTP model.
func FromUseCaseResponse(resp *recordDeployment.Response) *DeployResponse {
	return &DeployResponse{
		DeploymentID:   resp.DeploymentID,
		ItemID:         resp.ItemID,
		ReleaseOrderID: resp.ReleaseOrderID,
		DeployedBy:     resp.DeployedBy,
		DeployedAt:     resp.DeployedAt,
		FullyDeployed:  resp.FullyDeployed,
	}
}
