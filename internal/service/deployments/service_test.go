package deployments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	releaseOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/releaseorder"
	workOrderRepo "github.com/admedia/AMS-AdSalesService/internal/infra/storage/workorder"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/pkg/clock"
)

type fakeDeploymentRepo struct {
	nextID int64
	byItem map[int64]*domain.Deployment
}

func newFakeDeploymentRepo() *fakeDeploymentRepo {
	return &fakeDeploymentRepo{nextID: 1, byItem: map[int64]*domain.Deployment{}}
}

func (f *fakeDeploymentRepo) CreateIfAbsent(_ context.Context, d *domain.Deployment) (*domain.Deployment, bool, error) {
	if existing, ok := f.byItem[d.WorkOrderItemID]; ok {
		return existing, false, nil
	}
	cp := *d
	cp.ID = f.nextID
	f.nextID++
	f.byItem[cp.WorkOrderItemID] = &cp
	return &cp, true, nil
}

func (f *fakeDeploymentRepo) GetByItemID(_ context.Context, itemID int64) (*domain.Deployment, error) {
	d, ok := f.byItem[itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return d, nil
}

func (f *fakeDeploymentRepo) ListByReleaseOrderID(_ context.Context, releaseOrderID int64) ([]*domain.Deployment, error) {
	var out []*domain.Deployment
	for _, d := range f.byItem {
		if d.ReleaseOrderID == releaseOrderID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeReleaseRepo struct {
	orders map[int64]*domain.ReleaseOrder
}

func (f *fakeReleaseRepo) GetByID(_ context.Context, id int64) (*domain.ReleaseOrder, error) {
	ro, ok := f.orders[id]
	if !ok {
		return nil, releaseOrderRepo.ErrReleaseOrderNotFound
	}
	return ro, nil
}

func (f *fakeReleaseRepo) UpdateStatus(_ context.Context, id int64, status domain.ReleaseOrderStatus) error {
	ro, ok := f.orders[id]
	if !ok {
		return releaseOrderRepo.ErrReleaseOrderNotFound
	}
	ro.Status = status
	return nil
}

type fakeWorkOrderRepo struct {
	orders map[int64]*domain.WorkOrder
}

func (f *fakeWorkOrderRepo) GetByID(_ context.Context, id int64) (*domain.WorkOrder, error) {
	wo, ok := f.orders[id]
	if !ok {
		return nil, workOrderRepo.ErrWorkOrderNotFound
	}
	return wo, nil
}

func (f *fakeWorkOrderRepo) UpdateStatus(_ context.Context, id int64, status domain.WorkOrderStatus) error {
	wo, ok := f.orders[id]
	if !ok {
		return workOrderRepo.ErrWorkOrderNotFound
	}
	wo.Status = status
	return nil
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

var testNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

type fixture struct {
	service     *Service
	deployments *fakeDeploymentRepo
	releases    *fakeReleaseRepo
	orders      *fakeWorkOrderRepo
	notifier    *fakeNotifier
}

func newFixture(status domain.ReleaseOrderStatus) *fixture {
	website := domain.MediaWebsite
	addOn := domain.AddOnWhatsAppCampaign

	f := &fixture{
		deployments: newFakeDeploymentRepo(),
		releases: &fakeReleaseRepo{orders: map[int64]*domain.ReleaseOrder{
			5: {ID: 5, Number: "RO-test", WorkOrderID: 1, Status: status},
		}},
		orders: &fakeWorkOrderRepo{orders: map[int64]*domain.WorkOrder{
			1: {
				ID:       1,
				ClientID: 10,
				Status:   domain.WOStatusPaid,
				Items: []*domain.WorkOrderItem{
					{ID: 101, WorkOrderID: 1, MediaType: &website},
					{ID: 102, WorkOrderID: 1, MediaType: &website},
					{ID: 103, WorkOrderID: 1, AddOnType: &addOn},
				},
			},
		}},
		notifier: &fakeNotifier{},
	}
	f.service = NewService(f.deployments, f.releases, f.orders, passthroughTxManager{},
		f.notifier, clock.NewFixed(testNow), nopLogger{})
	return f
}

func TestRecordDeployment(t *testing.T) {
	ctx := context.Background()

	t.Run("records one item without completing", func(t *testing.T) {
		f := newFixture(domain.ROStatusReadyForIT)

		d, created, err := f.service.RecordDeployment(ctx, 5, 101, 88)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, int64(101), d.WorkOrderItemID)
		assert.Equal(t, testNow, d.DeployedAt)

		assert.Equal(t, domain.ROStatusReadyForIT, f.releases.orders[5].Status)
		assert.Equal(t, domain.WOStatusPaid, f.orders.orders[1].Status)
		assert.Empty(t, f.notifier.sent)
	})

	t.Run("last slot item flips order and work order live", func(t *testing.T) {
		f := newFixture(domain.ROStatusReadyForIT)

		_, _, err := f.service.RecordDeployment(ctx, 5, 101, 88)
		require.NoError(t, err)
		_, created, err := f.service.RecordDeployment(ctx, 5, 102, 88)
		require.NoError(t, err)
		assert.True(t, created)

		assert.Equal(t, domain.ROStatusDeployed, f.releases.orders[5].Status)
		assert.Equal(t, domain.WOStatusActive, f.orders.orders[1].Status)

		require.Len(t, f.notifier.sent, 1)
		assert.Equal(t, int64(10), f.notifier.sent[0].UserID)
		assert.Equal(t, notifyservice.TypeDeploymentComplete, f.notifier.sent[0].Type)
	})

	t.Run("add-on items never deploy so they do not gate completion", func(t *testing.T) {
		f := newFixture(domain.ROStatusReadyForMaterial)

		_, _, err := f.service.RecordDeployment(ctx, 5, 101, 88)
		require.NoError(t, err)
		done, err := f.service.IsFullyDeployed(ctx, 5)
		require.NoError(t, err)
		assert.False(t, done)

		_, _, err = f.service.RecordDeployment(ctx, 5, 102, 88)
		require.NoError(t, err)
		done, err = f.service.IsFullyDeployed(ctx, 5)
		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("replay within the queue returns the stored record", func(t *testing.T) {
		f := newFixture(domain.ROStatusReadyForIT)

		first, created, err := f.service.RecordDeployment(ctx, 5, 101, 88)
		require.NoError(t, err)
		require.True(t, created)

		again, created, err := f.service.RecordDeployment(ctx, 5, 101, 99)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, int64(88), again.DeployedBy, "original deployer kept")
	})

	t.Run("replay after full deployment returns the stored record", func(t *testing.T) {
		f := newFixture(domain.ROStatusReadyForIT)
		_, _, err := f.service.RecordDeployment(ctx, 5, 101, 88)
		require.NoError(t, err)
		_, _, err = f.service.RecordDeployment(ctx, 5, 102, 88)
		require.NoError(t, err)

		d, created, err := f.service.RecordDeployment(ctx, 5, 101, 88)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(101), d.WorkOrderItemID)
		assert.Len(t, f.notifier.sent, 1, "completion notified once")
	})

	t.Run("deploying an add-on is invalid", func(t *testing.T) {
		f := newFixture(domain.ROStatusReadyForIT)

		_, _, err := f.service.RecordDeployment(ctx, 5, 103, 88)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("order must sit in a deployment queue", func(t *testing.T) {
		f := newFixture(domain.ROStatusPendingSeniorReview)

		_, _, err := f.service.RecordDeployment(ctx, 5, 101, 88)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("unknown release order", func(t *testing.T) {
		f := newFixture(domain.ROStatusReadyForIT)

		_, _, err := f.service.RecordDeployment(ctx, 99, 101, 88)
		assert.ErrorIs(t, err, ErrReleaseOrderNotFound)
	})

	t.Run("foreign item", func(t *testing.T) {
		f := newFixture(domain.ROStatusReadyForIT)

		_, _, err := f.service.RecordDeployment(ctx, 5, 999, 88)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}
