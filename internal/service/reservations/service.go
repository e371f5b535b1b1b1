package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	approvalRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/approval"
	bookingRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/booking"
	slotRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/slot"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
)

// Service is the reservation ledger: it owns booking rows, their approval
// pipeline and their installment schedules.
type Service struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	approvalRepo ApprovalRepository
	resolver     ConflictResolver
	txManager    TransactionManager
	notifier     Notifier
	clock        clock.Clock
	logger       Logger
}

// NewService creates the reservation ledger.
func NewService(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	approvalRepo ApprovalRepository,
	resolver ConflictResolver,
	txManager TransactionManager,
	notifier Notifier,
	clk clock.Clock,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		approvalRepo: approvalRepo,
		resolver:     resolver,
		txManager:    txManager,
		notifier:     notifier,
		clock:        clk,
		logger:       logger,
	}
}

// CreateBookingParams carries everything needed to open a reservation.
type CreateBookingParams struct {
	ClientID    int64
	SlotID      int64
	Range       domain.DateRange
	TotalAmount decimal.Decimal
	WorkOrderID *int64
}

// CreateBooking opens a reservation on a slot. The availability and section
// checks run in the same serializable transaction as the insert, so two
// concurrent requests for overlapping ranges cannot both succeed; the
// exclusion constraint on bookings is the storage-level backstop.
func (s *Service) CreateBooking(ctx context.Context, params CreateBookingParams) (*domain.Booking, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}

	var booking *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		slot, err := s.slotRepo.GetByID(txCtx, params.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: CreateBooking - get slot: %v", ErrInternal, err)
		}

		availability, err := s.resolver.CheckAvailability(txCtx, params.SlotID, params.Range)
		if err != nil {
			return err
		}
		if !availability.Available {
			return fmt.Errorf("%w: slot id=%d over %s: %s",
				domain.ErrConflict, params.SlotID, params.Range, availability.BlockingReason)
		}

		sectionKey := slot.SectionKey()
		conflicted, err := s.resolver.CheckSectionConflict(txCtx, params.ClientID, sectionKey, params.Range, params.WorkOrderID)
		if err != nil {
			return err
		}
		if conflicted {
			return fmt.Errorf("%w: client id=%d already holds a reservation in section %s over %s",
				domain.ErrConflict, params.ClientID, sectionKey, params.Range)
		}

		booking, err = s.bookingRepo.Create(txCtx, &domain.Booking{
			ClientID:    params.ClientID,
			SlotID:      params.SlotID,
			SectionKey:  sectionKey,
			Range:       params.Range,
			Status:      domain.StatusRequested,
			TotalAmount: params.TotalAmount,
			WorkOrderID: params.WorkOrderID,
		})
		if err != nil {
			return fmt.Errorf("%w: CreateBooking - insert booking: %v", ErrInternal, err)
		}

		// The manager acts first; open their approval right away.
		if _, _, err := s.approvalRepo.CreateIfAbsent(txCtx, booking.ID, domain.RoleManager); err != nil {
			return fmt.Errorf("%w: CreateBooking - open manager approval: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateBooking: booking id=%d client=%d slot=%d %s", booking.ID, booking.ClientID, booking.SlotID, booking.Range)
	s.notifier.NotifyBestEffort(ctx, notifyservice.Notification{
		Role:    string(domain.RoleManager),
		Type:    notifyservice.TypeApprovalRequired,
		Message: fmt.Sprintf("Booking %d awaits manager approval", booking.ID),
	})

	return booking, nil
}

// GetBooking fetches one booking together with its approvals.
func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.Booking, []*domain.Approval, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, fmt.Errorf("%w: GetBooking - get booking: %v", ErrInternal, err)
	}

	approvals, err := s.approvalRepo.ListByBooking(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: GetBooking - list approvals: %v", ErrInternal, err)
	}

	return b, approvals, nil
}

// TransitionStatus moves a booking along the approval pipeline. Forward moves
// must follow the stage table and be performed by the stage's role; rejection
// is legal from any pending stage and needs a reason; active and paused
// toggle freely. The current stage's approval is closed and the next stage's
// opened in the same transaction, with duplicates suppressed by storage.
func (s *Service) TransitionStatus(ctx context.Context, id int64, target domain.BookingStatus, actorRole domain.ApprovalRole, actorID int64, reason *string) (*domain.Booking, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown booking status %q", domain.ErrValidation, target)
	}
	if target == domain.StatusRejected {
		if reason == nil || *reason == "" {
			return nil, fmt.Errorf("%w: rejection requires a reason", domain.ErrValidation)
		}
		if len(*reason) > domain.MaxRejectionReasonLength {
			return nil, fmt.Errorf("%w: rejection reason exceeds %d characters", domain.ErrValidation, domain.MaxRejectionReasonLength)
		}
	}

	var (
		booking *domain.Booking
		intents []notifyservice.Notification
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: TransitionStatus - get booking: %v", ErrInternal, err)
		}

		if b.Status == target {
			// Replayed request; nothing to do.
			booking = b
			return nil
		}
		if !domain.CanTransitionBooking(b.Status, target) {
			return fmt.Errorf("%w: booking id=%d cannot move %s -> %s", domain.ErrInvalidState, id, b.Status, target)
		}

		now := s.clock.Now()

		switch {
		case target == domain.StatusRejected:
			if stage, ok := domain.StageFor(b.Status); ok {
				err := s.approvalRepo.Close(txCtx, id, stage.Role, domain.ApprovalRejected, actorID, reason, now)
				if err != nil && !errors.Is(err, approvalRepo.ErrApprovalNotFound) {
					return fmt.Errorf("%w: TransitionStatus - close approval: %v", ErrInternal, err)
				}
			}
			intents = append(intents, notifyservice.Notification{
				UserID:  b.ClientID,
				Type:    notifyservice.TypeBookingStatusChange,
				Message: fmt.Sprintf("Booking %d was rejected: %s", id, *reason),
			})

		case (b.Status == domain.StatusActive && target == domain.StatusPaused) ||
			(b.Status == domain.StatusPaused && target == domain.StatusActive):
			intents = append(intents, notifyservice.Notification{
				UserID:  b.ClientID,
				Type:    notifyservice.TypeBookingStatusChange,
				Message: fmt.Sprintf("Booking %d is now %s", id, target),
			})

		default:
			stage, ok := domain.StageFor(b.Status)
			if !ok {
				return fmt.Errorf("%w: booking id=%d has no pending stage in status %s", domain.ErrInvalidState, id, b.Status)
			}
			if actorRole != stage.Role {
				return fmt.Errorf("%w: stage %s requires role %s, got %s",
					domain.ErrPrecondition, b.Status, stage.Role, actorRole)
			}

			err := s.approvalRepo.Close(txCtx, id, stage.Role, domain.ApprovalApproved, actorID, nil, now)
			if err != nil && !errors.Is(err, approvalRepo.ErrApprovalNotFound) {
				return fmt.Errorf("%w: TransitionStatus - close approval: %v", ErrInternal, err)
			}

			if stage.NextRole != nil {
				if _, _, err := s.approvalRepo.CreateIfAbsent(txCtx, id, *stage.NextRole); err != nil {
					return fmt.Errorf("%w: TransitionStatus - open next approval: %v", ErrInternal, err)
				}
				intents = append(intents, notifyservice.Notification{
					Role:    string(*stage.NextRole),
					Type:    notifyservice.TypeApprovalRequired,
					Message: fmt.Sprintf("Booking %d awaits %s approval", id, *stage.NextRole),
				})
			}
			intents = append(intents, notifyservice.Notification{
				UserID:  b.ClientID,
				Type:    notifyservice.TypeBookingStatusChange,
				Message: fmt.Sprintf("Booking %d moved to %s", id, target),
			})
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, target); err != nil {
			return fmt.Errorf("%w: TransitionStatus - update status: %v", ErrInternal, err)
		}

		b.Status = target
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("TransitionStatus: booking id=%d -> %s by role=%s actor=%d", id, booking.Status, actorRole, actorID)
	for _, n := range intents {
		s.notifier.NotifyBestEffort(ctx, n)
	}

	return booking, nil
}

// GenerateInstallments splits a booking total into the two-payment schedule:
// half due a week from now, half due a week before the campaign starts.
// Regeneration returns the stored schedule untouched.
func (s *Service) GenerateInstallments(ctx context.Context, bookingID int64, total decimal.Decimal, startDate time.Time) ([]*domain.Installment, error) {
	if total.IsNegative() || total.IsZero() {
		return nil, fmt.Errorf("%w: installment total must be positive, got %s", domain.ErrValidation, total)
	}

	first := total.Div(decimal.NewFromInt(domain.InstallmentCount)).Round(2)
	second := total.Sub(first)

	now := s.clock.Now()
	installments := []*domain.Installment{
		{
			BookingID: bookingID,
			Sequence:  1,
			Amount:    first,
			DueDate:   now.AddDate(0, 0, domain.FirstInstallmentDueDays),
			Status:    domain.InstallmentPending,
		},
		{
			BookingID: bookingID,
			Sequence:  2,
			Amount:    second,
			DueDate:   startDate.AddDate(0, 0, -domain.SecondInstallmentLeadDays),
			Status:    domain.InstallmentPending,
		},
	}

	created, err := s.bookingRepo.CreateInstallments(ctx, installments)
	if err != nil {
		return nil, fmt.Errorf("%w: GenerateInstallments - insert schedule: %v", ErrInternal, err)
	}

	s.logger.Info("GenerateInstallments: booking id=%d amounts %s/%s due %s/%s",
		bookingID, created[0].Amount, created[1].Amount,
		created[0].DueDate.Format(domain.DateFormat), created[1].DueDate.Format(domain.DateFormat))

	return created, nil
}

// GetInstallments fetches the installment schedule of a booking.
func (s *Service) GetInstallments(ctx context.Context, bookingID int64) ([]*domain.Installment, error) {
	installments, err := s.bookingRepo.GetInstallmentsByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: GetInstallments - get schedule: %v", ErrInternal, err)
	}
	return installments, nil
}

// ExpireOverdue marks active bookings whose range ended before today as
// expired and returns them so the caller can deactivate the creatives.
func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var expired []*domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		overdue, err := s.bookingRepo.GetActiveEndedBefore(txCtx, today)
		if err != nil {
			return fmt.Errorf("%w: ExpireOverdue - get overdue bookings: %v", ErrInternal, err)
		}

		for _, b := range overdue {
			if err := s.bookingRepo.UpdateStatus(txCtx, b.ID, domain.StatusExpired); err != nil {
				return fmt.Errorf("%w: ExpireOverdue - expire booking id=%d: %v", ErrInternal, b.ID, err)
			}
			b.Status = domain.StatusExpired
			expired = append(expired, b)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(expired) > 0 {
		s.logger.Info("ExpireOverdue: expired %d bookings ended before %s", len(expired), today.Format(domain.DateFormat))
	}

	return expired, nil
}
