package workorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	releaseOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/releaseorder"
	workOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/workorder"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/docservice"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
)

// Service drives a work order from draft through quoting, client acceptance
// and payment. Status moves follow the transition table; the negotiation
// loop is a flag on the quoted order, never a backward status move.
type Service struct {
	workOrderRepo WorkOrderRepository
	bookingRepo   BookingRepository
	releaseRepo   ReleaseOrderRepository
	installments  InstallmentScheduler
	txManager     TransactionManager
	docService    DocGenerator
	fileStore     FileStore
	notifier      Notifier
	clock         clock.Clock
	logger        Logger
}

// NewService creates the work order workflow service.
func NewService(
	workOrderRepo WorkOrderRepository,
	bookingRepo BookingRepository,
	releaseRepo ReleaseOrderRepository,
	installments InstallmentScheduler,
	txManager TransactionManager,
	docService DocGenerator,
	fileStore FileStore,
	notifier Notifier,
	clk clock.Clock,
	logger Logger,
) *Service {
	return &Service{
		workOrderRepo: workOrderRepo,
		bookingRepo:   bookingRepo,
		releaseRepo:   releaseRepo,
		installments:  installments,
		txManager:     txManager,
		docService:    docService,
		fileStore:     fileStore,
		notifier:      notifier,
		clock:         clk,
		logger:        logger,
	}
}

// GetWorkOrder fetches one work order with its items.
func (s *Service) GetWorkOrder(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	wo, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, workOrderRepo.ErrWorkOrderNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("%w: GetWorkOrder - get work order: %v", ErrInternal, err)
	}
	return wo, nil
}

// Quote prices a draft (or re-prices a quoted order after a negotiation
// request): item prices are applied, the total recomputed with GST, the
// negotiation flag cleared and the client notified. A fresh proforma is
// requested once the quote is committed; document generation is best-effort
// and never blocks the quote.
func (s *Service) Quote(ctx context.Context, id int64, itemPrices map[int64]decimal.Decimal, gstPercent decimal.Decimal, quotedBy int64) (*domain.WorkOrder, error) {
	if gstPercent.IsNegative() {
		return nil, fmt.Errorf("%w: gst percent must not be negative", domain.ErrValidation)
	}
	for itemID, price := range itemPrices {
		if price.IsNegative() {
			return nil, fmt.Errorf("%w: price for item id=%d must not be negative", domain.ErrValidation, itemID)
		}
	}

	var (
		wo       *domain.WorkOrder
		clientID int64
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if current.Status != domain.WOStatusDraft && current.Status != domain.WOStatusQuoted {
			return fmt.Errorf("%w: work order id=%d cannot be quoted in status %s", domain.ErrInvalidState, id, current.Status)
		}

		known := make(map[int64]*domain.WorkOrderItem, len(current.Items))
		for _, item := range current.Items {
			known[item.ID] = item
		}
		for itemID, price := range itemPrices {
			item, ok := known[itemID]
			if !ok {
				return fmt.Errorf("%w: item id=%d does not belong to work order id=%d", domain.ErrValidation, itemID, id)
			}
			if err := s.workOrderRepo.SetItemPrice(txCtx, itemID, price); err != nil {
				return fmt.Errorf("%w: Quote - set item price: %v", ErrInternal, err)
			}
			item.Price = price
		}

		total := domain.SubtotalWithGST(current.Items, gstPercent)
		if err := s.workOrderRepo.SetQuote(txCtx, id, total, gstPercent, quotedBy, nil); err != nil {
			return fmt.Errorf("%w: Quote - set quote: %v", ErrInternal, err)
		}

		current.Status = domain.WOStatusQuoted
		current.TotalAmount = total
		current.GSTPercent = gstPercent
		current.QuotedBy = &quotedBy
		current.NegotiationRequested = false
		current.NegotiationReason = nil
		current.NegotiationRequestedAt = nil

		wo = current
		clientID = current.ClientID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quote: work order id=%d total=%s gst=%s by=%d", id, wo.TotalAmount, gstPercent, quotedBy)
	s.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
		UserID:  clientID,
		Type:    notifyservice.TypeQuoteReady,
		Message: fmt.Sprintf("Work order %d has been quoted at %s", id, wo.TotalAmount),
	})

	if ref, err := s.docService.Generate(ctx, docservice.KindProforma, id); err != nil {
		s.logger.Warn("Quote: proforma generation failed for work order id=%d: %v", id, err)
	} else if err := s.workOrderRepo.SetProformaRef(ctx, id, ref); err != nil {
		s.logger.Error("Quote: failed to store proforma ref for work order id=%d: %v", id, err)
	} else {
		wo.ProformaRef = &ref
	}

	return wo, nil
}

// RequestNegotiation flags a quoted order for re-pricing. The status stays
// quoted; managers get notified and answer with a fresh Quote.
func (s *Service) RequestNegotiation(ctx context.Context, id int64, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: negotiation requires a reason", domain.ErrValidation)
	}
	if len(reason) > domain.MaxNegotiationReasonLength {
		return fmt.Errorf("%w: negotiation reason exceeds %d characters", domain.ErrValidation, domain.MaxNegotiationReasonLength)
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		wo, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if wo.Status != domain.WOStatusQuoted {
			return fmt.Errorf("%w: work order id=%d cannot negotiate in status %s", domain.ErrInvalidState, id, wo.Status)
		}

		if err := s.workOrderRepo.SetNegotiation(txCtx, id, reason, s.clock.Now()); err != nil {
			return fmt.Errorf("%w: RequestNegotiation - set negotiation: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("RequestNegotiation: work order id=%d flagged for re-pricing", id)
	s.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
		Role:    string(domain.RoleManager),
		Type:    notifyservice.TypeNegotiationRequest,
		Message: fmt.Sprintf("Client requests negotiation on work order %d: %s", id, reason),
	})

	return nil
}

// UploadPO stores the client's purchase order document and keeps its
// reference on the order. No status change; acceptance checks the reference.
func (s *Service) UploadPO(ctx context.Context, id int64, filename string, content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: purchase order file is empty", domain.ErrValidation)
	}

	if _, err := s.workOrderRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, workOrderRepo.ErrWorkOrderNotFound) {
			return "", ErrWorkOrderNotFound
		}
		return "", fmt.Errorf("%w: UploadPO - get work order: %v", ErrInternal, err)
	}

	ref, err := s.fileStore.Store(ctx, "purchase_orders", filename, content)
	if err != nil {
		return "", fmt.Errorf("%w: UploadPO - store file: %v", ErrInternal, err)
	}

	if err := s.workOrderRepo.SetPORef(ctx, id, ref); err != nil {
		return "", fmt.Errorf("%w: UploadPO - set reference: %v", ErrInternal, err)
	}

	s.logger.Info("UploadPO: work order id=%d stored purchase order ref=%s", id, ref)
	return ref, nil
}

// AcceptQuote records the client's acceptance. A purchase order must have
// been uploaded first; accepting an already accepted order is a no-op.
func (s *Service) AcceptQuote(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	var wo *domain.WorkOrder

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		switch current.Status {
		case domain.WOStatusClientAccepted, domain.WOStatusPaid, domain.WOStatusActive:
			// Already accepted; replay-safe.
			wo = current
			return nil
		case domain.WOStatusQuoted:
		default:
			return fmt.Errorf("%w: work order id=%d cannot be accepted in status %s", domain.ErrInvalidState, id, current.Status)
		}

		if current.PORef == nil || *current.PORef == "" {
			return fmt.Errorf("%w: work order id=%d has no purchase order uploaded", domain.ErrPrecondition, id)
		}

		if err := s.workOrderRepo.UpdateStatus(txCtx, id, domain.WOStatusClientAccepted); err != nil {
			return fmt.Errorf("%w: AcceptQuote - update status: %v", ErrInternal, err)
		}

		// Installment mode: open the two-payment schedule on every shadow
		// booking now that the quoted price is final. Regeneration is a no-op
		// inside the scheduler, so a retried acceptance stays safe.
		if current.PaymentMode == domain.PaymentInstallment {
			for _, item := range current.Items {
				if item.BookingID == nil || !item.Price.IsPositive() {
					continue
				}
				if _, err := s.installments.GenerateInstallments(txCtx, *item.BookingID, item.Price, item.Range.Start); err != nil {
					return fmt.Errorf("%w: AcceptQuote - schedule installments for booking id=%d: %v", ErrInternal, *item.BookingID, err)
				}
			}
		}

		current.Status = domain.WOStatusClientAccepted
		wo = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AcceptQuote: work order id=%d status=%s", id, wo.Status)
	s.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
		Role:    string(domain.RoleManager),
		Type:    notifyservice.TypeQuoteAccepted,
		Message: fmt.Sprintf("Work order %d accepted by client", id),
	})

	return wo, nil
}

// MarkPaid records settlement of the invoice. Marking an already paid order
// again is a no-op.
func (s *Service) MarkPaid(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	var wo *domain.WorkOrder

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if current.Status == domain.WOStatusPaid || current.Status == domain.WOStatusActive {
			wo = current
			return nil
		}
		if !domain.CanTransitionWorkOrder(current.Status, domain.WOStatusPaid) {
			return fmt.Errorf("%w: work order id=%d cannot be paid in status %s", domain.ErrInvalidState, id, current.Status)
		}

		if err := s.workOrderRepo.UpdateStatus(txCtx, id, domain.WOStatusPaid); err != nil {
			return fmt.Errorf("%w: MarkPaid - update status: %v", ErrInternal, err)
		}

		// A release order may already be in flight; mirror the settlement there.
		ro, err := s.releaseRepo.GetByWorkOrderID(txCtx, id)
		if err == nil {
			if err := s.releaseRepo.SetPaymentStatus(txCtx, ro.ID, domain.ReleasePaymentPaid); err != nil {
				return fmt.Errorf("%w: MarkPaid - set release payment status: %v", ErrInternal, err)
			}
		} else if !errors.Is(err, releaseOrderRepo.ErrReleaseOrderNotFound) {
			return fmt.Errorf("%w: MarkPaid - get release order: %v", ErrInternal, err)
		}

		current.Status = domain.WOStatusPaid
		wo = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("MarkPaid: work order id=%d status=%s", id, wo.Status)
	return wo, nil
}

// Reject kills an order before it goes live. Legal only from draft, quoted
// or client_accepted; the shadow bookings of its slot items are rejected in
// the same transaction so the inventory frees up immediately.
func (s *Service) Reject(ctx context.Context, id int64, reason string, actorID int64) (*domain.WorkOrder, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection requires a reason", domain.ErrValidation)
	}
	if len(reason) > domain.MaxRejectionReasonLength {
		return nil, fmt.Errorf("%w: rejection reason exceeds %d characters", domain.ErrValidation, domain.MaxRejectionReasonLength)
	}

	var (
		wo          *domain.WorkOrder
		clientID    int64
		rejectedNow bool
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.getForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		if current.Status == domain.WOStatusRejected {
			wo = current
			return nil
		}
		if !current.Status.CanBeRejected() {
			return fmt.Errorf("%w: work order id=%d cannot be rejected in status %s", domain.ErrInvalidState, id, current.Status)
		}

		if err := s.workOrderRepo.SetRejection(txCtx, id, reason); err != nil {
			return fmt.Errorf("%w: Reject - set rejection: %v", ErrInternal, err)
		}

		for _, item := range current.Items {
			if item.BookingID == nil {
				continue
			}
			if err := s.bookingRepo.UpdateStatus(txCtx, *item.BookingID, domain.StatusRejected); err != nil {
				return fmt.Errorf("%w: Reject - release booking id=%d: %v", ErrInternal, *item.BookingID, err)
			}
		}

		current.Status = domain.WOStatusRejected
		current.RejectionReason = &reason
		wo = current
		clientID = current.ClientID
		rejectedNow = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rejectedNow {
		s.logger.Info("Reject: work order id=%d rejected by actor=%d", id, actorID)
		s.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
			UserID:  clientID,
			Type:    notifyservice.TypeWorkOrderRejected,
			Message: fmt.Sprintf("Work order %d was rejected: %s", id, reason),
		})
	}

	return wo, nil
}

func (s *Service) getForUpdate(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	wo, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, workOrderRepo.ErrWorkOrderNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("%w: get work order: %v", ErrInternal, err)
	}
	return wo, nil
}
