package create_work_order

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	slotRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/slot"
	"github.com/admedia/AMS-AdSalesService/internal/service/reservations"
	"github.com/admedia/AMS-AdSalesService/pkg/ptr"
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

type fakeWorkOrderRepo struct {
	nextOrderID int64
	nextItemID  int64
	orders      map[int64]*domain.WorkOrder
	items       []*domain.WorkOrderItem
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{nextOrderID: 1, nextItemID: 1, orders: map[int64]*domain.WorkOrder{}}
}

func (f *fakeWorkOrderRepo) Create(_ context.Context, wo *domain.WorkOrder) (*domain.WorkOrder, error) {
	cp := *wo
	cp.ID = f.nextOrderID
	f.nextOrderID++
	f.orders[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeWorkOrderRepo) AddItem(_ context.Context, item *domain.WorkOrderItem) error {
	cp := *item
	cp.ID = f.nextItemID
	f.nextItemID++
	f.items = append(f.items, &cp)
	item.ID = cp.ID
	return nil
}

// fakeLedger opens shadow bookings and reports conflicts for the slot IDs
// listed in conflicting.
type fakeLedger struct {
	nextID      int64
	conflicting map[int64]bool
	created     []reservations.CreateBookingParams
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{nextID: 100, conflicting: map[int64]bool{}}
}

func (f *fakeLedger) CreateBooking(_ context.Context, params reservations.CreateBookingParams) (*domain.Booking, error) {
	if f.conflicting[params.SlotID] {
		return nil, fmt.Errorf("%w: slot id=%d is taken", domain.ErrConflict, params.SlotID)
	}
	f.created = append(f.created, params)
	b := &domain.Booking{
		ID:       f.nextID,
		ClientID: params.ClientID,
		SlotID:   params.SlotID,
		Range:    params.Range,
		Status:   domain.StatusRequested,
	}
	f.nextID++
	return b, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	slots     *fakeSlotRepo
	workOrder *fakeWorkOrderRepo
	ledger    *fakeLedger
	uc        *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		slots: &fakeSlotRepo{slots: map[int64]*domain.Slot{
			1: {ID: 1, Name: "Home banner", MediaType: domain.MediaWebsite, PageType: "home", BasePrice: decimal.NewFromInt(5000), Available: true},
			2: {ID: 2, Name: "Sports banner", MediaType: domain.MediaWebsite, PageType: "sports", BasePrice: decimal.NewFromInt(3000), Available: true},
			3: {ID: 3, Name: "Back cover", MediaType: domain.MediaMagazine, BasePrice: decimal.NewFromInt(20000), Available: true},
		}},
		workOrder: newFakeWorkOrderRepo(),
		ledger:    newFakeLedger(),
	}
	rates := AddOnRates{
		EmailPerDay:    decimal.NewFromInt(100),
		WhatsAppPerDay: decimal.RequireFromString("150.50"),
	}
	f.uc = NewUseCase(f.slots, f.workOrder, f.ledger, passthroughTxManager{}, rates, nopLogger{})
	return f
}

func slotLine(slotID int64, start, end string) ItemRequest {
	return ItemRequest{SlotID: ptr.Ptr(slotID), StartDate: start, EndDate: end}
}

func addOnLine(t string, start, end string) ItemRequest {
	return ItemRequest{AddOnType: ptr.Ptr(t), StartDate: start, EndDate: end}
}

func TestExecute_CreatesDraftWithSlotAndAddOnLines(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, &Request{
		ClientID:    10,
		PaymentMode: "installment",
		Items: []ItemRequest{
			slotLine(1, "2026-02-01", "2026-02-28"),
			addOnLine("email_campaign", "2026-02-01", "2026-02-10"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(10), resp.ClientID)
	assert.Equal(t, domain.WOStatusDraft, resp.Status)
	assert.Equal(t, domain.PaymentInstallment, resp.PaymentMode)
	assert.Empty(t, resp.Skipped)
	require.Len(t, resp.Items, 2)

	slotItem := resp.Items[0]
	require.NotNil(t, slotItem.SlotID)
	assert.Equal(t, int64(1), *slotItem.SlotID)
	require.NotNil(t, slotItem.SectionKey)
	assert.Equal(t, "website:home", *slotItem.SectionKey)
	assert.True(t, slotItem.Price.Equal(decimal.NewFromInt(5000)), "slot line carries the slot's base price, got %s", slotItem.Price)
	require.NotNil(t, slotItem.BookingID)
	assert.Equal(t, int64(100), *slotItem.BookingID)

	// 10 inclusive days at 100/day.
	addOnItem := resp.Items[1]
	assert.Nil(t, addOnItem.SlotID)
	require.NotNil(t, addOnItem.AddOnType)
	assert.Equal(t, "email_campaign", *addOnItem.AddOnType)
	assert.True(t, addOnItem.Price.Equal(decimal.NewFromInt(1000)), "expected 1000, got %s", addOnItem.Price)

	require.Len(t, f.ledger.created, 1)
	params := f.ledger.created[0]
	assert.Equal(t, int64(10), params.ClientID)
	assert.Equal(t, int64(1), params.SlotID)
	require.NotNil(t, params.WorkOrderID)
	assert.Equal(t, resp.ID, *params.WorkOrderID)
}

func TestExecute_PricesWhatsAppAddOnFromRate(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		ClientID:    10,
		PaymentMode: "full",
		Items:       []ItemRequest{addOnLine("whatsapp_campaign", "2026-03-01", "2026-03-07")},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	// 7 inclusive days at 150.50/day.
	assert.True(t, resp.Items[0].Price.Equal(decimal.RequireFromString("1053.50")),
		"expected 1053.50, got %s", resp.Items[0].Price)
}

func TestExecute_SkipsConflictedSlotLines(t *testing.T) {
	f := newFixture()
	f.ledger.conflicting[2] = true

	resp, err := f.uc.Execute(context.Background(), &Request{
		ClientID:    10,
		PaymentMode: "full",
		Items: []ItemRequest{
			slotLine(1, "2026-02-01", "2026-02-28"),
			slotLine(2, "2026-02-01", "2026-02-28"),
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(1), *resp.Items[0].SlotID)

	require.Len(t, resp.Skipped, 1)
	skipped := resp.Skipped[0]
	assert.Equal(t, int64(2), skipped.SlotID)
	assert.Equal(t, "2026-02-01..2026-02-28", skipped.Range)
	assert.Contains(t, skipped.Reason, "slot id=2")
}

func TestExecute_FailsWhenEveryLineConflicts(t *testing.T) {
	f := newFixture()
	f.ledger.conflicting[1] = true
	f.ledger.conflicting[2] = true

	_, err := f.uc.Execute(context.Background(), &Request{
		ClientID:    10,
		PaymentMode: "full",
		Items: []ItemRequest{
			slotLine(1, "2026-02-01", "2026-02-28"),
			slotLine(2, "2026-02-01", "2026-02-28"),
		},
	})
	require.ErrorIs(t, err, ErrAllItemsConflicted)
	assert.Empty(t, f.workOrder.items)
}

func TestExecute_RejectsDuplicateSections(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		ClientID:    10,
		PaymentMode: "full",
		Items: []ItemRequest{
			slotLine(1, "2026-02-01", "2026-02-10"),
			slotLine(1, "2026-03-01", "2026-03-10"),
		},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "duplicate section website:home")
}

func TestExecute_AllowsDifferentSectionsInOneRequest(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		ClientID:    10,
		PaymentMode: "full",
		Items: []ItemRequest{
			slotLine(1, "2026-02-01", "2026-02-10"),
			slotLine(3, "2026-02-01", "2026-02-10"),
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
}

func TestExecute_UnknownSlot(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		ClientID:    10,
		PaymentMode: "full",
		Items:       []ItemRequest{slotLine(99, "2026-02-01", "2026-02-10")},
	})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		errText string
	}{
		{
			name:    "non-positive client",
			req:     &Request{ClientID: 0, PaymentMode: "full", Items: []ItemRequest{slotLine(1, "2026-02-01", "2026-02-10")}},
			errText: "clientID",
		},
		{
			name:    "unknown payment mode",
			req:     &Request{ClientID: 10, PaymentMode: "barter", Items: []ItemRequest{slotLine(1, "2026-02-01", "2026-02-10")}},
			errText: "payment mode",
		},
		{
			name:    "no items",
			req:     &Request{ClientID: 10, PaymentMode: "full"},
			errText: "at least one item",
		},
		{
			name: "line with neither slot nor add-on",
			req: &Request{ClientID: 10, PaymentMode: "full", Items: []ItemRequest{
				{StartDate: "2026-02-01", EndDate: "2026-02-10"},
			}},
			errText: "exactly one of",
		},
		{
			name: "line with both slot and add-on",
			req: &Request{ClientID: 10, PaymentMode: "full", Items: []ItemRequest{
				{SlotID: ptr.Ptr(int64(1)), AddOnType: ptr.Ptr("email_campaign"), StartDate: "2026-02-01", EndDate: "2026-02-10"},
			}},
			errText: "exactly one of",
		},
		{
			name:    "unknown add-on type",
			req:     &Request{ClientID: 10, PaymentMode: "full", Items: []ItemRequest{addOnLine("sms_campaign", "2026-02-01", "2026-02-10")}},
			errText: "unknown add-on type",
		},
		{
			name:    "malformed range",
			req:     &Request{ClientID: 10, PaymentMode: "full", Items: []ItemRequest{slotLine(1, "2026-02-10", "2026-02-01")}},
			errText: "item 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
