package approve_po

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	workOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/workorder"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/docservice"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
)

// UseCase approves the client's purchase order and issues the work order's
// single release order. Replays are safe: the approval flag overwrite is
// harmless and the unique constraint on work_order_id hands back the
// existing ticket. Approving after a deployment re-issues the ticket by
// resetting it to the start of the review pipeline.
type UseCase struct {
	workOrderRepo WorkOrderRepository
	releaseRepo   ReleaseOrderRepository
	txManager     TransactionManager
	docService    DocGenerator
	notifier      Notifier
	clock         clock.Clock
	logger        Logger
}

// NewUseCase creates the use case.
func NewUseCase(
	workOrderRepo WorkOrderRepository,
	releaseRepo ReleaseOrderRepository,
	txManager TransactionManager,
	docService DocGenerator,
	notifier Notifier,
	clk clock.Clock,
	logger Logger,
) *UseCase {
	return &UseCase{
		workOrderRepo: workOrderRepo,
		releaseRepo:   releaseRepo,
		txManager:     txManager,
		docService:    docService,
		notifier:      notifier,
		clock:         clk,
		logger:        logger,
	}
}

// Execute runs the approval inside one serializable transaction.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApprovePO: workOrder=%d, actor=%d", req.WorkOrderID, req.ActorID)

	if req.WorkOrderID <= 0 {
		return nil, fmt.Errorf("%w: workOrderID must be positive", domain.ErrValidation)
	}
	if req.ActorID <= 0 {
		return nil, fmt.Errorf("%w: actorID must be positive", domain.ErrValidation)
	}

	var (
		resp     *Response
		clientID int64
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Load and lock the order.
		wo, err := uc.workOrderRepo.GetByID(txCtx, req.WorkOrderID)
		if err != nil {
			if errors.Is(err, workOrderRepo.ErrWorkOrderNotFound) {
				return ErrWorkOrderNotFound
			}
			return fmt.Errorf("%w: get work order: %v", ErrInternal, err)
		}

		// 2. Preconditions: the purchase order must be on file and the order
		// must still carry at least one item.
		if wo.PORef == nil || *wo.PORef == "" {
			return fmt.Errorf("%w: work order id=%d has no purchase order uploaded", domain.ErrPrecondition, wo.ID)
		}
		if len(wo.Items) == 0 {
			return fmt.Errorf("%w: work order id=%d has no items", domain.ErrPrecondition, wo.ID)
		}

		// 3. Stamp the approval.
		if err := uc.workOrderRepo.SetPOApproved(txCtx, wo.ID, req.ActorID, uc.clock.Now()); err != nil {
			return fmt.Errorf("%w: set approval: %v", ErrInternal, err)
		}

		// 4. Issue the ticket; the unique constraint hands replays the
		// existing one.
		ro, created, err := uc.releaseRepo.CreateIfAbsent(txCtx, &domain.ReleaseOrder{
			Number:        fmt.Sprintf("RO-%s", uuid.NewString()),
			WorkOrderID:   wo.ID,
			Status:        domain.ROStatusPendingBannerUpload,
			PaymentStatus: domain.ReleasePaymentPending,
		})
		if err != nil {
			return fmt.Errorf("%w: issue release order: %v", ErrInternal, err)
		}

		issued := created
		if !created && ro.Status == domain.ROStatusDeployed {
			// Re-issue after deployment: the same ticket walks the pipeline again.
			if err := uc.releaseRepo.ResetForReissue(txCtx, ro.ID); err != nil {
				return fmt.Errorf("%w: reset release order: %v", ErrInternal, err)
			}
			ro.Status = domain.ROStatusPendingBannerUpload
			ro.RejectionReason = nil
			ro.RejectedBy = nil
			ro.RejectedAt = nil
			issued = true
		}

		clientID = wo.ClientID
		resp = &Response{
			ReleaseOrderID: ro.ID,
			Number:         ro.Number,
			WorkOrderID:    wo.ID,
			Status:         ro.Status,
			TaxInvoiceRef:  ro.TaxInvoiceRef,
			Issued:         issued,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Issued {
		uc.logger.Info("ApprovePO: issued release order %s for work order id=%d", resp.Number, resp.WorkOrderID)

		// Tax invoice generation is best-effort; the ticket stands without it.
		if ref, err := uc.docService.Generate(ctx, docservice.KindTaxInvoice, resp.WorkOrderID); err != nil {
			uc.logger.Warn("ApprovePO: tax invoice generation failed for work order id=%d: %v", resp.WorkOrderID, err)
		} else if err := uc.releaseRepo.SetTaxInvoiceRef(ctx, resp.ReleaseOrderID, ref); err != nil {
			uc.logger.Error("ApprovePO: failed to store tax invoice ref: %v", err)
		} else {
			resp.TaxInvoiceRef = &ref
		}

		uc.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
			UserID:  clientID,
			Type:    notifyservice.TypeBannerRequired,
			Message: fmt.Sprintf("Release order %s issued; upload creatives to proceed", resp.Number),
		})
	}

	return resp, nil
}
