package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	approvalRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/approval"
	bookingRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/booking"
	slotRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/slot"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/internal/service/conflicts"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
)

type fakeSlotRepo struct {
	slots map[int64]*domain.Slot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s, nil
}

type fakeBookingRepo struct {
	nextID       int64
	bookings     map[int64]*domain.Booking
	installments map[int64][]*domain.Installment
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		nextID:       1,
		bookings:     map[int64]*domain.Booking{},
		installments: map[int64][]*domain.Installment{},
	}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	cp := *b
	cp.ID = f.nextID
	f.nextID++
	f.bookings[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) GetActiveEndedBefore(_ context.Context, day time.Time) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.Status == domain.StatusActive && b.Range.EndedBefore(day) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) CreateInstallments(_ context.Context, installments []*domain.Installment) ([]*domain.Installment, error) {
	bookingID := installments[0].BookingID
	if existing, ok := f.installments[bookingID]; ok {
		return existing, nil
	}
	f.installments[bookingID] = installments
	return installments, nil
}

func (f *fakeBookingRepo) GetInstallmentsByBookingID(_ context.Context, bookingID int64) ([]*domain.Installment, error) {
	return f.installments[bookingID], nil
}

type approvalKey struct {
	bookingID int64
	role      domain.ApprovalRole
}

type fakeApprovalRepo struct {
	nextID    int64
	approvals map[approvalKey]*domain.Approval
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{nextID: 1, approvals: map[approvalKey]*domain.Approval{}}
}

func (f *fakeApprovalRepo) CreateIfAbsent(_ context.Context, bookingID int64, role domain.ApprovalRole) (*domain.Approval, bool, error) {
	key := approvalKey{bookingID, role}
	if a, ok := f.approvals[key]; ok {
		return a, false, nil
	}
	a := &domain.Approval{ID: f.nextID, BookingID: bookingID, Role: role, Status: domain.ApprovalPending}
	f.nextID++
	f.approvals[key] = a
	return a, true, nil
}

func (f *fakeApprovalRepo) ListByBooking(_ context.Context, bookingID int64) ([]*domain.Approval, error) {
	var out []*domain.Approval
	for key, a := range f.approvals {
		if key.bookingID == bookingID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApprovalRepo) Close(_ context.Context, bookingID int64, role domain.ApprovalRole, status domain.ApprovalStatus, actedBy int64, reason *string, at time.Time) error {
	a, ok := f.approvals[approvalKey{bookingID, role}]
	if !ok {
		return approvalRepo.ErrApprovalNotFound
	}
	a.Status = status
	a.ActedBy = &actedBy
	a.Reason = reason
	a.ClosedAt = &at
	return nil
}

type fakeResolver struct {
	availability    conflicts.Availability
	sectionConflict bool
}

func (f *fakeResolver) CheckAvailability(context.Context, int64, domain.DateRange) (conflicts.Availability, error) {
	return f.availability, nil
}

func (f *fakeResolver) CheckSectionConflict(context.Context, int64, string, domain.DateRange, *int64) (bool, error) {
	return f.sectionConflict, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	sent []notifyservice.Notification
}

func (f *fakeNotifier) NotifyBestEffort(_ context.Context, n notifyservice.Notification) {
	f.sent = append(f.sent, n)
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

type fixture struct {
	service   *Service
	slots     *fakeSlotRepo
	bookings  *fakeBookingRepo
	approvals *fakeApprovalRepo
	resolver  *fakeResolver
	notifier  *fakeNotifier
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		slots: &fakeSlotRepo{slots: map[int64]*domain.Slot{
			1: {ID: 1, Name: "homepage banner", MediaType: domain.MediaWebsite, PageType: "home", Available: true},
		}},
		bookings:  newFakeBookingRepo(),
		approvals: newFakeApprovalRepo(),
		resolver:  &fakeResolver{availability: conflicts.Availability{Available: true}},
		notifier:  &fakeNotifier{},
	}
	f.service = NewService(f.slots, f.bookings, f.approvals, f.resolver, passthroughTxManager{},
		f.notifier, clock.NewFixed(now), nopLogger{})
	return f
}

var testNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("opens booking and manager approval", func(t *testing.T) {
		f := newFixture(testNow)

		b, err := f.service.CreateBooking(ctx, CreateBookingParams{
			ClientID:    10,
			SlotID:      1,
			Range:       mustRange(t, "2026-01-10", "2026-01-20"),
			TotalAmount: decimal.RequireFromString("10000"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRequested, b.Status)
		assert.Equal(t, "website:home", b.SectionKey)

		approvals, err := f.approvals.ListByBooking(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, approvals, 1)
		assert.Equal(t, domain.RoleManager, approvals[0].Role)
		assert.Equal(t, domain.ApprovalPending, approvals[0].Status)

		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, notifyservice.TypeApprovalRequired, f.notifier.sent[0].Type)
	})

	t.Run("unavailable slot conflicts", func(t *testing.T) {
		f := newFixture(testNow)
		f.resolver.availability = conflicts.Availability{Available: false, BlockingReason: "slot is booked"}

		_, err := f.service.CreateBooking(ctx, CreateBookingParams{
			ClientID: 10, SlotID: 1, Range: mustRange(t, "2026-01-10", "2026-01-20"),
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Empty(t, f.bookings.bookings, "nothing persisted on conflict")
	})

	t.Run("section conflict", func(t *testing.T) {
		f := newFixture(testNow)
		f.resolver.sectionConflict = true

		_, err := f.service.CreateBooking(ctx, CreateBookingParams{
			ClientID: 10, SlotID: 1, Range: mustRange(t, "2026-01-10", "2026-01-20"),
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(testNow)

		_, err := f.service.CreateBooking(ctx, CreateBookingParams{
			ClientID: 10, SlotID: 99, Range: mustRange(t, "2026-01-10", "2026-01-20"),
		})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func createTestBooking(t *testing.T, f *fixture) *domain.Booking {
	t.Helper()
	b, err := f.service.CreateBooking(context.Background(), CreateBookingParams{
		ClientID:    10,
		SlotID:      1,
		Range:       mustRange(t, "2026-01-10", "2026-01-20"),
		TotalAmount: decimal.RequireFromString("10000"),
	})
	require.NoError(t, err)
	f.notifier.sent = nil
	return b
}

func TestTransitionStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("walks the full pipeline", func(t *testing.T) {
		f := newFixture(testNow)
		b := createTestBooking(t, f)

		steps := []struct {
			target domain.BookingStatus
			role   domain.ApprovalRole
		}{
			{domain.StatusPendingManager, domain.RoleManager},
			{domain.StatusPendingVP, domain.RoleManager},
			{domain.StatusPendingSeniorReview, domain.RoleVP},
			{domain.StatusPendingPayment, domain.RoleSeniorReviewer},
			{domain.StatusPendingDeployment, domain.RoleAccounts},
			{domain.StatusActive, domain.RoleIT},
		}
		for _, step := range steps {
			got, err := f.service.TransitionStatus(ctx, b.ID, step.target, step.role, 77, nil)
			require.NoError(t, err, "to %s", step.target)
			assert.Equal(t, step.target, got.Status)
		}

		approvals, err := f.approvals.ListByBooking(ctx, b.ID)
		require.NoError(t, err)
		// One approval per role in the pipeline; duplicates suppressed.
		assert.Len(t, approvals, 5)
		for _, a := range approvals {
			assert.Equal(t, domain.ApprovalApproved, a.Status, "role %s", a.Role)
		}
	})

	t.Run("wrong role is rejected", func(t *testing.T) {
		f := newFixture(testNow)
		b := createTestBooking(t, f)

		_, err := f.service.TransitionStatus(ctx, b.ID, domain.StatusPendingManager, domain.RoleVP, 77, nil)
		assert.ErrorIs(t, err, domain.ErrPrecondition)
	})

	t.Run("same status replay is a no-op", func(t *testing.T) {
		f := newFixture(testNow)
		b := createTestBooking(t, f)

		got, err := f.service.TransitionStatus(ctx, b.ID, domain.StatusRequested, domain.RoleManager, 77, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRequested, got.Status)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("stage skip is illegal", func(t *testing.T) {
		f := newFixture(testNow)
		b := createTestBooking(t, f)

		_, err := f.service.TransitionStatus(ctx, b.ID, domain.StatusPendingVP, domain.RoleManager, 77, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("rejection needs a reason", func(t *testing.T) {
		f := newFixture(testNow)
		b := createTestBooking(t, f)

		_, err := f.service.TransitionStatus(ctx, b.ID, domain.StatusRejected, domain.RoleManager, 77, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejection closes the stage approval", func(t *testing.T) {
		f := newFixture(testNow)
		b := createTestBooking(t, f)
		reason := "budget not cleared"

		got, err := f.service.TransitionStatus(ctx, b.ID, domain.StatusRejected, domain.RoleManager, 77, &reason)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, got.Status)

		approvals, err := f.approvals.ListByBooking(ctx, b.ID)
		require.NoError(t, err)
		require.Len(t, approvals, 1)
		assert.Equal(t, domain.ApprovalRejected, approvals[0].Status)
		require.NotNil(t, approvals[0].Reason)
		assert.Equal(t, reason, *approvals[0].Reason)
	})

	t.Run("pause and resume", func(t *testing.T) {
		f := newFixture(testNow)
		b := createTestBooking(t, f)
		f.bookings.bookings[b.ID].Status = domain.StatusActive

		got, err := f.service.TransitionStatus(ctx, b.ID, domain.StatusPaused, domain.RoleManager, 77, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaused, got.Status)

		got, err = f.service.TransitionStatus(ctx, b.ID, domain.StatusActive, domain.RoleManager, 77, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, got.Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(testNow)

		_, err := f.service.TransitionStatus(ctx, 99, domain.StatusPendingManager, domain.RoleManager, 77, nil)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGenerateInstallments(t *testing.T) {
	ctx := context.Background()

	t.Run("splits the total into the two-payment schedule", func(t *testing.T) {
		f := newFixture(testNow)
		start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		got, err := f.service.GenerateInstallments(ctx, 1, decimal.RequireFromString("10000"), start)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("5000")), "first %s", got[0].Amount)
		assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("5000")), "second %s", got[1].Amount)
		assert.Equal(t, testNow.AddDate(0, 0, 7), got[0].DueDate)
		assert.Equal(t, start.AddDate(0, 0, -7), got[1].DueDate)
	})

	t.Run("odd paise lands on the second installment", func(t *testing.T) {
		f := newFixture(testNow)
		start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		got, err := f.service.GenerateInstallments(ctx, 1, decimal.RequireFromString("10000.01"), start)
		require.NoError(t, err)
		require.Len(t, got, 2)

		total := got[0].Amount.Add(got[1].Amount)
		assert.True(t, total.Equal(decimal.RequireFromString("10000.01")), "total %s", total)
	})

	t.Run("regeneration returns the stored schedule", func(t *testing.T) {
		f := newFixture(testNow)
		start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

		first, err := f.service.GenerateInstallments(ctx, 1, decimal.RequireFromString("10000"), start)
		require.NoError(t, err)
		second, err := f.service.GenerateInstallments(ctx, 1, decimal.RequireFromString("20000"), start)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("non-positive total", func(t *testing.T) {
		f := newFixture(testNow)

		_, err := f.service.GenerateInstallments(ctx, 1, decimal.Zero, testNow)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestExpireOverdue(t *testing.T) {
	ctx := context.Background()

	f := newFixture(testNow)
	ended := createTestBooking(t, f)
	f.bookings.bookings[ended.ID].Status = domain.StatusActive
	f.bookings.bookings[ended.ID].Range = mustRange(t, "2025-12-01", "2025-12-20")

	running, err := f.bookings.Create(ctx, &domain.Booking{
		ClientID: 11, SlotID: 1, SectionKey: "website:home",
		Status: domain.StatusActive, Range: mustRange(t, "2026-01-01", "2026-02-01"),
	})
	require.NoError(t, err)

	expired, err := f.service.ExpireOverdue(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, ended.ID, expired[0].ID)
	assert.Equal(t, domain.StatusExpired, expired[0].Status)

	still, err := f.bookings.GetByID(ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, still.Status)
}
