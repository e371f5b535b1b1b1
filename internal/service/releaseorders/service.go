package releaseorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	releaseOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/releaseorder"
	workOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/workorder"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
)

// Service walks a release order through multi-role review towards the
// deployment queues. Magazine inventory routes to the material team at the
// senior stage; everything else lands with IT.
type Service struct {
	releaseRepo   ReleaseOrderRepository
	workOrderRepo WorkOrderRepository
	txManager     TransactionManager
	fileStore     FileStore
	notifier      Notifier
	clock         clock.Clock
	logger        Logger
}

// NewService creates the release order workflow service.
func NewService(
	releaseRepo ReleaseOrderRepository,
	workOrderRepo WorkOrderRepository,
	txManager TransactionManager,
	fileStore FileStore,
	notifier Notifier,
	clk clock.Clock,
	logger Logger,
) *Service {
	return &Service{
		releaseRepo:   releaseRepo,
		workOrderRepo: workOrderRepo,
		txManager:     txManager,
		fileStore:     fileStore,
		notifier:      notifier,
		clock:         clk,
		logger:        logger,
	}
}

// GetReleaseOrder fetches one release order.
func (s *Service) GetReleaseOrder(ctx context.Context, id int64) (*domain.ReleaseOrder, error) {
	ro, err := s.releaseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, releaseOrderRepo.ErrReleaseOrderNotFound) {
			return nil, ErrReleaseOrderNotFound
		}
		return nil, fmt.Errorf("%w: GetReleaseOrder - get release order: %v", ErrInternal, err)
	}
	return ro, nil
}

// ApproveStage advances the review pipeline one stage. Leaving the banner
// upload and manager review stages requires every slot item to carry
// creative; the senior stage routes on the magazine rule. Each advance
// clears any outstanding rejection.
func (s *Service) ApproveStage(ctx context.Context, id int64, actorID int64) (*domain.ReleaseOrder, error) {
	var (
		ro      *domain.ReleaseOrder
		intents []notifyservice.Notification
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		wo, err := s.workOrderRepo.GetByID(txCtx, current.WorkOrderID)
		if err != nil {
			return fmt.Errorf("%w: ApproveStage - get work order: %v", ErrInternal, err)
		}

		if current.Status == domain.ROStatusPendingBannerUpload || current.Status == domain.ROStatusPendingManagerReview {
			if !wo.AllBannersUploaded() {
				return fmt.Errorf("%w: release order %s still has items without creative", domain.ErrPrecondition, current.Number)
			}
		}

		target, ok := domain.ApproveTarget(current.Status, wo.HasMagazineItem())
		if !ok {
			return fmt.Errorf("%w: release order %s cannot be approved in status %s", domain.ErrInvalidState, current.Number, current.Status)
		}

		if err := s.releaseRepo.UpdateStatus(txCtx, id, target); err != nil {
			return fmt.Errorf("%w: ApproveStage - update status: %v", ErrInternal, err)
		}

		current.Status = target
		current.RejectionReason = nil
		current.RejectedBy = nil
		current.RejectedAt = nil
		ro = current

		intents = append(intents, notifyservice.Notification{
			UserID:  wo.ClientID,
			Type:    notifyservice.TypeReleaseStageChange,
			Message: fmt.Sprintf("Release order %s moved to %s", current.Number, target),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ApproveStage: release order id=%d -> %s by actor=%d", id, ro.Status, actorID)
	for _, n := range intents {
		s.notifier.NotifyBestEffort(ctx, n)
	}

	return ro, nil
}

// RejectStage loops the order back exactly one review stage: VP review
// returns to manager review, senior review returns to VP review. No other
// stage may reject.
func (s *Service) RejectStage(ctx context.Context, id int64, actorID int64, reason string) (*domain.ReleaseOrder, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection requires a reason", domain.ErrValidation)
	}
	if len(reason) > domain.MaxRejectionReasonLength {
		return nil, fmt.Errorf("%w: rejection reason exceeds %d characters", domain.ErrValidation, domain.MaxRejectionReasonLength)
	}

	var (
		ro         *domain.ReleaseOrder
		notifyRole domain.ApprovalRole
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		target, ok := domain.RejectionTarget(current.Status)
		if !ok {
			return fmt.Errorf("%w: release order %s cannot be rejected in status %s", domain.ErrInvalidState, current.Number, current.Status)
		}

		now := s.clock.Now()
		if err := s.releaseRepo.SetRejection(txCtx, id, target, reason, actorID, now); err != nil {
			return fmt.Errorf("%w: RejectStage - set rejection: %v", ErrInternal, err)
		}

		switch target {
		case domain.ROStatusPendingManagerReview:
			notifyRole = domain.RoleManager
		case domain.ROStatusPendingVPReview:
			notifyRole = domain.RoleVP
		}

		current.Status = target
		current.RejectionReason = &reason
		current.RejectedBy = &actorID
		current.RejectedAt = &now
		ro = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("RejectStage: release order id=%d -> %s by actor=%d", id, ro.Status, actorID)
	s.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
		Role:    string(notifyRole),
		Type:    notifyservice.TypeReleaseRejected,
		Message: fmt.Sprintf("Release order %s returned to %s: %s", ro.Number, ro.Status, reason),
	})

	return ro, nil
}

// ReturnToClient sends the order back to the banner upload stage so the
// client can replace creatives. Legal from the banner upload stage itself
// (stamping the reason) and from manager review.
func (s *Service) ReturnToClient(ctx context.Context, id int64, actorID int64, reason string) (*domain.ReleaseOrder, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: returning to client requires a reason", domain.ErrValidation)
	}

	var (
		ro       *domain.ReleaseOrder
		clientID int64
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if current.Status != domain.ROStatusPendingBannerUpload && current.Status != domain.ROStatusPendingManagerReview {
			return fmt.Errorf("%w: release order %s cannot be returned to client in status %s", domain.ErrInvalidState, current.Number, current.Status)
		}

		wo, err := s.workOrderRepo.GetByID(txCtx, current.WorkOrderID)
		if err != nil {
			return fmt.Errorf("%w: ReturnToClient - get work order: %v", ErrInternal, err)
		}

		now := s.clock.Now()
		if err := s.releaseRepo.SetRejection(txCtx, id, domain.ROStatusPendingBannerUpload, reason, actorID, now); err != nil {
			return fmt.Errorf("%w: ReturnToClient - set rejection: %v", ErrInternal, err)
		}

		current.Status = domain.ROStatusPendingBannerUpload
		current.RejectionReason = &reason
		current.RejectedBy = &actorID
		current.RejectedAt = &now
		ro = current
		clientID = wo.ClientID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ReturnToClient: release order id=%d returned for new creative by actor=%d", id, actorID)
	s.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
		UserID:  clientID,
		Type:    notifyservice.TypeBannerRequired,
		Message: fmt.Sprintf("Release order %s needs new creative: %s", ro.Number, reason),
	})

	return ro, nil
}

// UploadBanner stores creative for one item and, when every slot item now
// carries creative and no rejection is outstanding, auto-advances the order
// from banner upload to manager review.
func (s *Service) UploadBanner(ctx context.Context, itemID int64, filename string, content []byte) (*domain.ReleaseOrder, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: banner file is empty", domain.ErrValidation)
	}

	item, err := s.workOrderRepo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, workOrderRepo.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: UploadBanner - get item: %v", ErrInternal, err)
	}
	if item.IsAddOn() {
		return nil, fmt.Errorf("%w: item id=%d is an add-on and carries no creative", domain.ErrValidation, itemID)
	}

	ref, err := s.fileStore.Store(ctx, "banners", filename, content)
	if err != nil {
		return nil, fmt.Errorf("%w: UploadBanner - store file: %v", ErrInternal, err)
	}

	var ro *domain.ReleaseOrder

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.workOrderRepo.SetItemBanner(txCtx, itemID, ref); err != nil {
			return fmt.Errorf("%w: UploadBanner - set banner: %v", ErrInternal, err)
		}

		current, err := s.releaseRepo.GetByWorkOrderID(txCtx, item.WorkOrderID)
		if err != nil {
			if errors.Is(err, releaseOrderRepo.ErrReleaseOrderNotFound) {
				// Creative uploaded ahead of release order issue; nothing to advance.
				return nil
			}
			return fmt.Errorf("%w: UploadBanner - get release order: %v", ErrInternal, err)
		}

		advanced, err := s.advanceIfReady(txCtx, current)
		if err != nil {
			return err
		}
		ro = advanced
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UploadBanner: item id=%d ref=%s", itemID, ref)
	return ro, nil
}

// SubmitBanners is the client's explicit re-submission after creatives were
// returned: it clears the outstanding rejection and advances to manager
// review once every slot item carries creative. Submitting an order already
// past banner upload is a no-op.
func (s *Service) SubmitBanners(ctx context.Context, id int64) (*domain.ReleaseOrder, error) {
	var ro *domain.ReleaseOrder

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if current.Status != domain.ROStatusPendingBannerUpload {
			ro = current
			return nil
		}

		wo, err := s.workOrderRepo.GetByID(txCtx, current.WorkOrderID)
		if err != nil {
			return fmt.Errorf("%w: SubmitBanners - get work order: %v", ErrInternal, err)
		}
		if !wo.AllBannersUploaded() {
			return fmt.Errorf("%w: release order %s still has items without creative", domain.ErrPrecondition, current.Number)
		}

		// A submit answers the outstanding rejection; the status update
		// clears its metadata.
		if err := s.releaseRepo.UpdateStatus(txCtx, id, domain.ROStatusPendingManagerReview); err != nil {
			return fmt.Errorf("%w: SubmitBanners - update status: %v", ErrInternal, err)
		}

		current.Status = domain.ROStatusPendingManagerReview
		current.RejectionReason = nil
		current.RejectedBy = nil
		current.RejectedAt = nil
		ro = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SubmitBanners: release order id=%d status=%s", id, ro.Status)
	return ro, nil
}

// advanceIfReady applies the readiness predicate shared by the upload and
// submit paths: all slot items carry creative and no rejection is open.
func (s *Service) advanceIfReady(ctx context.Context, ro *domain.ReleaseOrder) (*domain.ReleaseOrder, error) {
	if ro.Status != domain.ROStatusPendingBannerUpload || ro.HasOpenRejection() {
		return ro, nil
	}

	wo, err := s.workOrderRepo.GetByID(ctx, ro.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: advanceIfReady - get work order: %v", ErrInternal, err)
	}
	if !wo.AllBannersUploaded() {
		return ro, nil
	}

	if err := s.releaseRepo.UpdateStatus(ctx, ro.ID, domain.ROStatusPendingManagerReview); err != nil {
		return nil, fmt.Errorf("%w: advanceIfReady - update status: %v", ErrInternal, err)
	}

	ro.Status = domain.ROStatusPendingManagerReview
	s.logger.Info("advanceIfReady: release order id=%d auto-advanced to manager review", ro.ID)
	return ro, nil
}

func (s *Service) getForUpdate(ctx context.Context, id int64) (*domain.ReleaseOrder, error) {
	ro, err := s.releaseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, releaseOrderRepo.ErrReleaseOrderNotFound) {
			return nil, ErrReleaseOrderNotFound
		}
		return nil, fmt.Errorf("%w: get release order: %v", ErrInternal, err)
	}
	return ro, nil
}
