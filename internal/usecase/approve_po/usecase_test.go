package approve_po

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	workOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/workorder"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/docservice"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
	"github.com/admedia/AMS-AdSalesService/pkg/ptr"
)

var testNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

type fakeWorkOrderRepo struct {
	orders     map[int64]*domain.WorkOrder
	approvedBy map[int64]int64
	approvedAt map[int64]time.Time
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{
		orders:     map[int64]*domain.WorkOrder{},
		approvedBy: map[int64]int64{},
		approvedAt: map[int64]time.Time{},
	}
}

func (f *fakeWorkOrderRepo) GetByID(_ context.Context, id int64) (*domain.WorkOrder, error) {
	wo, ok := f.orders[id]
	if !ok {
		return nil, workOrderRepo.ErrWorkOrderNotFound
	}
	return wo, nil
}

func (f *fakeWorkOrderRepo) SetPOApproved(_ context.Context, id int64, actorID int64, at time.Time) error {
	wo, ok := f.orders[id]
	if !ok {
		return workOrderRepo.ErrWorkOrderNotFound
	}
	wo.POApproved = true
	f.approvedBy[id] = actorID
	f.approvedAt[id] = at
	return nil
}

type fakeReleaseRepo struct {
	nextID      int64
	byWorkOrder map[int64]*domain.ReleaseOrder
	resetIDs    []int64
}

func newFakeReleaseRepo() *fakeReleaseRepo {
	return &fakeReleaseRepo{nextID: 1, byWorkOrder: map[int64]*domain.ReleaseOrder{}}
}

func (f *fakeReleaseRepo) CreateIfAbsent(_ context.Context, ro *domain.ReleaseOrder) (*domain.ReleaseOrder, bool, error) {
	if existing, ok := f.byWorkOrder[ro.WorkOrderID]; ok {
		return existing, false, nil
	}
	cp := *ro
	cp.ID = f.nextID
	f.nextID++
	f.byWorkOrder[cp.WorkOrderID] = &cp
	return &cp, true, nil
}

func (f *fakeReleaseRepo) ResetForReissue(_ context.Context, id int64) error {
	f.resetIDs = append(f.resetIDs, id)
	for _, ro := range f.byWorkOrder {
		if ro.ID == id {
			ro.Status = domain.ROStatusPendingBannerUpload
			ro.RejectionReason = nil
			ro.RejectedBy = nil
			ro.RejectedAt = nil
		}
	}
	return nil
}

func (f *fakeReleaseRepo) SetTaxInvoiceRef(_ context.Context, id int64, ref string) error {
	for _, ro := range f.byWorkOrder {
		if ro.ID == id {
			ro.TaxInvoiceRef = &ref
		}
	}
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDocGenerator struct {
	err   error
	kinds []docservice.DocumentKind
}

func (f *fakeDocGenerator) Generate(_ context.Context, kind docservice.DocumentKind, workOrderID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.kinds = append(f.kinds, kind)
	return "docs/tax-invoice-1.pdf", nil
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

type fixture struct {
	workOrder *fakeWorkOrderRepo
	release   *fakeReleaseRepo
	docs      *fakeDocGenerator
	notifier  *fakeNotifier
	uc        *UseCase
}

// newFixture seeds work order 1 for client 10 with a purchase order on file
// and one slot item.
func newFixture() *fixture {
	f := &fixture{
		workOrder: newFakeWorkOrderRepo(),
		release:   newFakeReleaseRepo(),
		docs:      &fakeDocGenerator{},
		notifier:  &fakeNotifier{},
	}
	f.workOrder.orders[1] = &domain.WorkOrder{
		ID:       1,
		ClientID: 10,
		Status:   domain.WOStatusClientAccepted,
		PORef:    ptr.Ptr("docs/po-1.pdf"),
		Items: []*domain.WorkOrderItem{
			{ID: 101, WorkOrderID: 1, SlotID: ptr.Ptr(int64(7))},
		},
	}
	f.uc = NewUseCase(f.workOrder, f.release, passthroughTxManager{}, f.docs, f.notifier, clock.NewFixed(testNow), nopLogger{})
	return f
}

func TestExecute_IssuesReleaseOrder(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 55})
	require.NoError(t, err)

	assert.True(t, resp.Issued)
	assert.Equal(t, int64(1), resp.WorkOrderID)
	assert.Equal(t, domain.ROStatusPendingBannerUpload, resp.Status)
	assert.Contains(t, resp.Number, "RO-")

	assert.True(t, f.workOrder.orders[1].POApproved)
	assert.Equal(t, int64(55), f.workOrder.approvedBy[1])
	assert.Equal(t, testNow, f.workOrder.approvedAt[1])

	require.NotNil(t, resp.TaxInvoiceRef)
	assert.Equal(t, "docs/tax-invoice-1.pdf", *resp.TaxInvoiceRef)
	assert.Equal(t, []docservice.DocumentKind{docservice.KindTaxInvoice}, f.docs.kinds)

	require.Len(t, f.notifier.sent, 1)
	sent := f.notifier.sent[0]
	assert.Equal(t, int64(10), sent.UserID)
	assert.Equal(t, notifyservice.TypeBannerRequired, sent.Type)
	assert.Contains(t, sent.Message, resp.Number)
}

func TestExecute_ReplayReturnsExistingTicket(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 55})
	require.NoError(t, err)
	require.True(t, first.Issued)

	second, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 56})
	require.NoError(t, err)

	assert.False(t, second.Issued)
	assert.Equal(t, first.ReleaseOrderID, second.ReleaseOrderID)
	assert.Equal(t, first.Number, second.Number)
	require.NotNil(t, second.TaxInvoiceRef)
	assert.Equal(t, *first.TaxInvoiceRef, *second.TaxInvoiceRef)

	// The replay generates no new documents and stays silent.
	assert.Len(t, f.docs.kinds, 1)
	assert.Len(t, f.notifier.sent, 1)
}

func TestExecute_ReissuesAfterDeployment(t *testing.T) {
	f := newFixture()

	first, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 55})
	require.NoError(t, err)

	existing := f.release.byWorkOrder[1]
	existing.Status = domain.ROStatusDeployed
	existing.RejectionReason = ptr.Ptr("late creative swap")
	existing.RejectedBy = ptr.Ptr(int64(3))
	existing.RejectedAt = ptr.Ptr(testNow)

	resp, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 55})
	require.NoError(t, err)

	assert.True(t, resp.Issued)
	assert.Equal(t, first.ReleaseOrderID, resp.ReleaseOrderID)
	assert.Equal(t, domain.ROStatusPendingBannerUpload, resp.Status)
	assert.Equal(t, []int64{first.ReleaseOrderID}, f.release.resetIDs)
	assert.Nil(t, f.release.byWorkOrder[1].RejectionReason)
	assert.Len(t, f.notifier.sent, 2)
}

func TestExecute_RequiresUploadedPurchaseOrder(t *testing.T) {
	f := newFixture()
	f.workOrder.orders[1].PORef = nil

	_, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 55})
	require.ErrorIs(t, err, domain.ErrPrecondition)
	assert.Contains(t, err.Error(), "no purchase order")
	assert.Empty(t, f.release.byWorkOrder)
}

func TestExecute_RequiresItems(t *testing.T) {
	f := newFixture()
	f.workOrder.orders[1].Items = nil

	_, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 55})
	require.ErrorIs(t, err, domain.ErrPrecondition)
	assert.Contains(t, err.Error(), "no items")
}

func TestExecute_TaxInvoiceFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.docs.err = errors.New("renderer down")

	resp, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 55})
	require.NoError(t, err)

	assert.True(t, resp.Issued)
	assert.Nil(t, resp.TaxInvoiceRef)
	assert.Nil(t, f.release.byWorkOrder[1].TaxInvoiceRef)
	assert.Len(t, f.notifier.sent, 1)
}

func TestExecute_UnknownWorkOrder(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 99, ActorID: 55})
	require.ErrorIs(t, err, ErrWorkOrderNotFound)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{WorkOrderID: 0, ActorID: 55})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Execute(context.Background(), &Request{WorkOrderID: 1, ActorID: 0})
	require.ErrorIs(t, err, domain.ErrValidation)
}
