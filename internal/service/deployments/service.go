package deployments

import (
	"context"
	"errors"
	"fmt"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	releaseOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/releaseorder"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
)

// Service tracks per-item deployment records and flips the release order and
// its work order live once the last slot item is deployed.
type Service struct {
	deploymentRepo DeploymentRepository
	releaseRepo    ReleaseOrderRepository
	workOrderRepo  WorkOrderRepository
	txManager      TransactionManager
	notifier       Notifier
	clock          clock.Clock
	logger         Logger
}

// NewService creates the deployment tracker.
func NewService(
	deploymentRepo DeploymentRepository,
	releaseRepo ReleaseOrderRepository,
	workOrderRepo WorkOrderRepository,
	txManager TransactionManager,
	notifier Notifier,
	clk clock.Clock,
	logger Logger,
) *Service {
	return &Service{
		deploymentRepo: deploymentRepo,
		releaseRepo:    releaseRepo,
		workOrderRepo:  workOrderRepo,
		txManager:      txManager,
		notifier:       notifier,
		clock:          clk,
		logger:         logger,
	}
}

// RecordDeployment registers that one item went live. Replays return the
// stored record. When the record completes the set of slot items, the
// release order moves to deployed and the work order goes active in the
// same transaction.
func (s *Service) RecordDeployment(ctx context.Context, releaseOrderID, itemID, deployedBy int64) (*domain.Deployment, bool, error) {
	var (
		deployment *domain.Deployment
		created    bool
		completed  bool
		clientID   int64
		liveWOID   int64
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		ro, err := s.releaseRepo.GetByID(txCtx, releaseOrderID)
		if err != nil {
			if errors.Is(err, releaseOrderRepo.ErrReleaseOrderNotFound) {
				return ErrReleaseOrderNotFound
			}
			return fmt.Errorf("%w: RecordDeployment - get release order: %v", ErrInternal, err)
		}

		wo, err := s.workOrderRepo.GetByID(txCtx, ro.WorkOrderID)
		if err != nil {
			return fmt.Errorf("%w: RecordDeployment - get work order: %v", ErrInternal, err)
		}

		var item *domain.WorkOrderItem
		for _, i := range wo.Items {
			if i.ID == itemID {
				item = i
				break
			}
		}
		if item == nil {
			return ErrItemNotFound
		}
		if item.IsAddOn() {
			return fmt.Errorf("%w: item id=%d is an add-on and is not deployed", domain.ErrValidation, itemID)
		}

		if ro.Status == domain.ROStatusDeployed {
			// Replay after completion; hand back the stored record.
			existing, err := s.deploymentRepo.GetByItemID(txCtx, itemID)
			if err != nil {
				return fmt.Errorf("%w: RecordDeployment - get existing record: %v", ErrInternal, err)
			}
			deployment = existing
			return nil
		}
		if !ro.IsReadyForDeployment() {
			return fmt.Errorf("%w: release order %s is not in a deployment queue (status %s)",
				domain.ErrInvalidState, ro.Number, ro.Status)
		}

		deployment, created, err = s.deploymentRepo.CreateIfAbsent(txCtx, &domain.Deployment{
			WorkOrderItemID: itemID,
			ReleaseOrderID:  releaseOrderID,
			DeployedBy:      deployedBy,
			Status:          domain.DeploymentDeployed,
			DeployedAt:      s.clock.Now(),
		})
		if err != nil {
			return fmt.Errorf("%w: RecordDeployment - insert record: %v", ErrInternal, err)
		}

		done, err := s.fullyDeployed(txCtx, releaseOrderID, wo)
		if err != nil {
			return err
		}
		if done {
			if err := s.releaseRepo.UpdateStatus(txCtx, releaseOrderID, domain.ROStatusDeployed); err != nil {
				return fmt.Errorf("%w: RecordDeployment - mark release order deployed: %v", ErrInternal, err)
			}
			if err := s.workOrderRepo.UpdateStatus(txCtx, ro.WorkOrderID, domain.WOStatusActive); err != nil {
				return fmt.Errorf("%w: RecordDeployment - activate work order: %v", ErrInternal, err)
			}
			completed = true
			clientID = wo.ClientID
			liveWOID = ro.WorkOrderID
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("RecordDeployment: item id=%d deployed on release order id=%d by=%d", itemID, releaseOrderID, deployedBy)
	}
	if completed {
		s.logger.Info("RecordDeployment: release order id=%d fully deployed, work order live", releaseOrderID)
		s.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
			UserID:  clientID,
			Type:    notifyservice.TypeDeploymentComplete,
			Message: fmt.Sprintf("Campaign for work order %d is live", liveWOID),
		})
	}

	return deployment, created, nil
}

// IsFullyDeployed reports whether every slot item of the release order's
// work order has a deployment record.
func (s *Service) IsFullyDeployed(ctx context.Context, releaseOrderID int64) (bool, error) {
	ro, err := s.releaseRepo.GetByID(ctx, releaseOrderID)
	if err != nil {
		if errors.Is(err, releaseOrderRepo.ErrReleaseOrderNotFound) {
			return false, ErrReleaseOrderNotFound
		}
		return false, fmt.Errorf("%w: IsFullyDeployed - get release order: %v", ErrInternal, err)
	}

	wo, err := s.workOrderRepo.GetByID(ctx, ro.WorkOrderID)
	if err != nil {
		return false, fmt.Errorf("%w: IsFullyDeployed - get work order: %v", ErrInternal, err)
	}

	return s.fullyDeployed(ctx, releaseOrderID, wo)
}

// ListDeployments fetches the deployment records of a release order.
func (s *Service) ListDeployments(ctx context.Context, releaseOrderID int64) ([]*domain.Deployment, error) {
	records, err := s.deploymentRepo.ListByReleaseOrderID(ctx, releaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDeployments - list records: %v", ErrInternal, err)
	}
	return records, nil
}

func (s *Service) fullyDeployed(ctx context.Context, releaseOrderID int64, wo *domain.WorkOrder) (bool, error) {
	records, err := s.deploymentRepo.ListByReleaseOrderID(ctx, releaseOrderID)
	if err != nil {
		return false, fmt.Errorf("%w: fullyDeployed - list records: %v", ErrInternal, err)
	}

	deployed := make(map[int64]bool, len(records))
	for _, rec := range records {
		deployed[rec.WorkOrderItemID] = true
	}

	for _, item := range wo.Items {
		if item.IsAddOn() {
			continue
		}
		if !deployed[item.ID] {
			return false, nil
		}
	}
	return true, nil
}
