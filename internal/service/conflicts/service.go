package conflicts

import (
	"context"
	"errors"
	"fmt"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	slotRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/slot"
)

// Availability is the outcome of a slot availability check.
type Availability struct {
	Available      bool
	BlockingReason string
}

// Resolver decides whether a reservation may be created without
// double-booking, and enforces the one-slot-per-section-per-client rule.
//
// The resolver only reads; it runs on the caller's context, so when the
// caller holds a serializable transaction the reads join it and the
// check-then-insert sequence is atomic.
type Resolver struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewResolver creates a conflict resolver.
func NewResolver(slotRepo SlotRepository, bookingRepo BookingRepository, logger Logger) *Resolver {
	return &Resolver{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// CheckAvailability reports whether the slot can be sold for the range.
// A slot is unavailable when it is closed for sale, its manual block window
// overlaps the range, or any blocking booking overlaps the range.
func (r *Resolver) CheckAvailability(ctx context.Context, slotID int64, rng domain.DateRange) (Availability, error) {
	if err := rng.Validate(); err != nil {
		return Availability{}, err
	}

	slot, err := r.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return Availability{}, fmt.Errorf("%w: slot id=%d", domain.ErrNotFound, slotID)
		}
		r.logger.Error("CheckAvailability: failed to get slot id=%d: %v", slotID, err)
		return Availability{}, fmt.Errorf("%w: CheckAvailability - get slot: %v", ErrInternal, err)
	}

	if !slot.Available {
		return Availability{Available: false, BlockingReason: "slot is not open for sale"}, nil
	}

	if slot.IsBlockedFor(rng) {
		reason := fmt.Sprintf("slot is blocked %s", slot.ManualBlock.Window)
		if slot.ManualBlock.Reason != "" {
			reason += ": " + slot.ManualBlock.Reason
		}
		return Availability{Available: false, BlockingReason: reason}, nil
	}

	blocking, err := r.bookingRepo.GetBlockingBySlotOverlapping(ctx, slotID, rng)
	if err != nil {
		r.logger.Error("CheckAvailability: failed to get bookings for slot id=%d: %v", slotID, err)
		return Availability{}, fmt.Errorf("%w: CheckAvailability - get bookings: %v", ErrInternal, err)
	}

	if len(blocking) > 0 {
		b := blocking[0]
		return Availability{
			Available:      false,
			BlockingReason: fmt.Sprintf("slot is booked %s (booking id=%d, status=%s)", b.Range, b.ID, b.Status),
		}, nil
	}

	return Availability{Available: true}, nil
}

// CheckSectionConflict reports whether the client already holds a blocking
// booking in the section overlapping the range. Bookings belonging to
// excludeWorkOrderID are ignored so items of one work order being created
// never conflict with each other.
func (r *Resolver) CheckSectionConflict(ctx context.Context, clientID int64, sectionKey string, rng domain.DateRange, excludeWorkOrderID *int64) (bool, error) {
	if err := rng.Validate(); err != nil {
		return false, err
	}

	existing, err := r.bookingRepo.GetBlockingBySectionOverlapping(ctx, clientID, sectionKey, rng, excludeWorkOrderID)
	if err != nil {
		r.logger.Error("CheckSectionConflict: failed to get bookings for client=%d section=%s: %v",
			clientID, sectionKey, err)
		return false, fmt.Errorf("%w: CheckSectionConflict - get bookings: %v", ErrInternal, err)
	}

	if len(existing) > 0 {
		r.logger.Warn("CheckSectionConflict: client=%d already holds booking id=%d in section=%s over %s",
			clientID, existing[0].ID, sectionKey, rng)
		return true, nil
	}

	return false, nil
}
