package record_deployment

import (
	"context"
	"fmt"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// UseCase records that one item went live. The heavy lifting (idempotent
// insert, completion detection, status flips) sits in the tracker service;
// the use case validates and shapes the response.
type UseCase struct {
	tracker DeploymentTracker
	logger  Logger
}

// NewUseCase creates the use case.
func NewUseCase(tracker DeploymentTracker, logger Logger) *UseCase {
	return &UseCase{tracker: tracker, logger: logger}
}

// Execute records the deployment.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RecordDeployment: releaseOrder=%d, item=%d, deployer=%d",
		req.ReleaseOrderID, req.ItemID, req.DeployerID)

	if req.ReleaseOrderID <= 0 {
		return nil, fmt.Errorf("%w: releaseOrderID must be positive", domain.ErrValidation)
	}
	if req.ItemID <= 0 {
		return nil, fmt.Errorf("%w: itemID must be positive", domain.ErrValidation)
	}
	if req.DeployerID <= 0 {
		return nil, fmt.Errorf("%w: deployerID must be positive", domain.ErrValidation)
	}

	record, created, err := uc.tracker.RecordDeployment(ctx, req.ReleaseOrderID, req.ItemID, req.DeployerID)
	if err != nil {
		return nil, err
	}

	done, err := uc.tracker.IsFullyDeployed(ctx, req.ReleaseOrderID)
	if err != nil {
		return nil, err
	}

	return &Response{
		DeploymentID:   record.ID,
		ItemID:         record.WorkOrderItemID,
		ReleaseOrderID: record.ReleaseOrderID,
		DeployedBy:     record.DeployedBy,
		DeployedAt:     record.DeployedAt,
		AlreadyExisted: !created,
		FullyDeployed:  done,
	}, nil
}
