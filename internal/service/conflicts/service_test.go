package conflicts

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	slotRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/slot"
)

type fakeSlotRepo struct {
	slots map[int64]*domain.Slot
	err   error
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s, nil
}

type fakeBookingRepo struct {
	bySlot    []*domain.Booking
	bySection []*domain.Booking
	err       error
}

func (f *fakeBookingRepo) GetBlockingBySlotOverlapping(_ context.Context, _ int64, rng domain.DateRange) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Booking
	for _, b := range f.bySlot {
		if b.Range.Overlaps(rng) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) GetBlockingBySectionOverlapping(_ context.Context, _ int64, _ string, rng domain.DateRange, excludeWorkOrderID *int64) ([]*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Booking
	for _, b := range f.bySection {
		if excludeWorkOrderID != nil && b.WorkOrderID != nil && *b.WorkOrderID == *excludeWorkOrderID {
			continue
		}
		if b.Range.Overlaps(rng) {
			out = append(out, b)
		}
	}
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustRange(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(start, end)
	require.NoError(t, err)
	return r
}

func openSlot(id int64) *domain.Slot {
	return &domain.Slot{ID: id, Name: "homepage banner", MediaType: domain.MediaWebsite, PageType: "home", Available: true}
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("free slot is available", func(t *testing.T) {
		r := NewResolver(&fakeSlotRepo{slots: map[int64]*domain.Slot{1: openSlot(1)}}, &fakeBookingRepo{}, nopLogger{})

		got, err := r.CheckAvailability(ctx, 1, mustRange(t, "2026-01-10", "2026-01-20"))
		require.NoError(t, err)
		assert.True(t, got.Available)
		assert.Empty(t, got.BlockingReason)
	})

	t.Run("overlapping booking blocks", func(t *testing.T) {
		bookings := &fakeBookingRepo{bySlot: []*domain.Booking{{
			ID:     7,
			Status: domain.StatusPendingVP,
			Range:  mustRange(t, "2026-01-15", "2026-01-25"),
		}}}
		r := NewResolver(&fakeSlotRepo{slots: map[int64]*domain.Slot{1: openSlot(1)}}, bookings, nopLogger{})

		got, err := r.CheckAvailability(ctx, 1, mustRange(t, "2026-01-10", "2026-01-20"))
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Contains(t, got.BlockingReason, "booking id=7")
	})

	t.Run("disjoint booking does not block", func(t *testing.T) {
		bookings := &fakeBookingRepo{bySlot: []*domain.Booking{{
			ID:     7,
			Status: domain.StatusActive,
			Range:  mustRange(t, "2026-02-01", "2026-02-10"),
		}}}
		r := NewResolver(&fakeSlotRepo{slots: map[int64]*domain.Slot{1: openSlot(1)}}, bookings, nopLogger{})

		got, err := r.CheckAvailability(ctx, 1, mustRange(t, "2026-01-10", "2026-01-20"))
		require.NoError(t, err)
		assert.True(t, got.Available)
	})

	t.Run("manual block window blocks", func(t *testing.T) {
		s := openSlot(1)
		s.ManualBlock = &domain.ManualBlock{
			Window: mustRange(t, "2026-01-18", "2026-01-22"),
			Reason: "homepage redesign",
		}
		r := NewResolver(&fakeSlotRepo{slots: map[int64]*domain.Slot{1: s}}, &fakeBookingRepo{}, nopLogger{})

		got, err := r.CheckAvailability(ctx, 1, mustRange(t, "2026-01-10", "2026-01-20"))
		require.NoError(t, err)
		assert.False(t, got.Available)
		assert.Contains(t, got.BlockingReason, "homepage redesign")
	})

	t.Run("closed slot blocks", func(t *testing.T) {
		s := openSlot(1)
		s.Available = false
		r := NewResolver(&fakeSlotRepo{slots: map[int64]*domain.Slot{1: s}}, &fakeBookingRepo{}, nopLogger{})

		got, err := r.CheckAvailability(ctx, 1, mustRange(t, "2026-01-10", "2026-01-20"))
		require.NoError(t, err)
		assert.False(t, got.Available)
	})

	t.Run("unknown slot", func(t *testing.T) {
		r := NewResolver(&fakeSlotRepo{slots: map[int64]*domain.Slot{}}, &fakeBookingRepo{}, nopLogger{})

		_, err := r.CheckAvailability(ctx, 99, mustRange(t, "2026-01-10", "2026-01-20"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid range", func(t *testing.T) {
		r := NewResolver(&fakeSlotRepo{}, &fakeBookingRepo{}, nopLogger{})

		_, err := r.CheckAvailability(ctx, 1, domain.DateRange{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("repository failure surfaces as internal", func(t *testing.T) {
		r := NewResolver(&fakeSlotRepo{slots: map[int64]*domain.Slot{1: openSlot(1)}},
			&fakeBookingRepo{err: errors.New("connection reset")}, nopLogger{})

		_, err := r.CheckAvailability(ctx, 1, mustRange(t, "2026-01-10", "2026-01-20"))
		assert.ErrorIs(t, err, ErrInternal)
	})
}

// TestCheckAvailabilityRandomized drives the resolver with randomized booked
// and requested windows: a slot must report unavailable exactly when a
// blocking booking shares a day with the request. Seeded so failures
// reproduce.
func TestCheckAvailabilityRandomized(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	randomRange := func() domain.DateRange {
		start := base.AddDate(0, 0, rng.Intn(90))
		end := start.AddDate(0, 0, rng.Intn(21))
		r, err := domain.NewDateRange(start.Format(domain.DateFormat), end.Format(domain.DateFormat))
		require.NoError(t, err)
		return r
	}

	for i := 0; i < 200; i++ {
		booked := randomRange()
		requested := randomRange()

		bookings := &fakeBookingRepo{bySlot: []*domain.Booking{{
			ID:     7,
			Status: domain.StatusActive,
			Range:  booked,
		}}}
		r := NewResolver(&fakeSlotRepo{slots: map[int64]*domain.Slot{1: openSlot(1)}}, bookings, nopLogger{})

		got, err := r.CheckAvailability(ctx, 1, requested)
		require.NoError(t, err)
		assert.Equal(t, !booked.Overlaps(requested), got.Available,
			"booked=%s requested=%s", booked, requested)
	}
}

func TestCheckSectionConflict(t *testing.T) {
	ctx := context.Background()
	woID := int64(42)

	held := &domain.Booking{
		ID:          3,
		ClientID:    10,
		SectionKey:  "website:home",
		Status:      domain.StatusPendingManager,
		Range:       mustRange(t, "2026-01-12", "2026-01-18"),
		WorkOrderID: &woID,
	}

	t.Run("existing booking in section conflicts", func(t *testing.T) {
		r := NewResolver(&fakeSlotRepo{}, &fakeBookingRepo{bySection: []*domain.Booking{held}}, nopLogger{})

		conflict, err := r.CheckSectionConflict(ctx, 10, "website:home", mustRange(t, "2026-01-10", "2026-01-20"), nil)
		require.NoError(t, err)
		assert.True(t, conflict)
	})

	t.Run("same work order's bookings are excluded", func(t *testing.T) {
		r := NewResolver(&fakeSlotRepo{}, &fakeBookingRepo{bySection: []*domain.Booking{held}}, nopLogger{})

		conflict, err := r.CheckSectionConflict(ctx, 10, "website:home", mustRange(t, "2026-01-10", "2026-01-20"), &woID)
		require.NoError(t, err)
		assert.False(t, conflict)
	})

	t.Run("disjoint range does not conflict", func(t *testing.T) {
		r := NewResolver(&fakeSlotRepo{}, &fakeBookingRepo{bySection: []*domain.Booking{held}}, nopLogger{})

		conflict, err := r.CheckSectionConflict(ctx, 10, "website:home", mustRange(t, "2026-03-01", "2026-03-10"), nil)
		require.NoError(t, err)
		assert.False(t, conflict)
	})
}
