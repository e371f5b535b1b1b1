package releaseorders

import (
	"context"
	"time"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
)

// ReleaseOrderRepository is the release order storage surface the workflow needs.
type ReleaseOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ReleaseOrder, error)
	GetByWorkOrderID(ctx context.Context, workOrderID int64) (*domain.ReleaseOrder, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReleaseOrderStatus) error
	SetRejection(ctx context.Context, id int64, status domain.ReleaseOrderStatus, reason string, rejectedBy int64, at time.Time) error
}

// WorkOrderRepository is the work order read/write surface the workflow needs.
type WorkOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error)
	GetItemByID(ctx context.Context, itemID int64) (*domain.WorkOrderItem, error)
	SetItemBanner(ctx context.Context, itemID int64, bannerURL string) error
}

// TransactionManager runs closures inside database transactions.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// FileStore keeps uploaded creatives and hands back opaque references.
type FileStore interface {
	Store(ctx context.Context, category string, filename string, content []byte) (string, error)
}

// Notifier delivers notifications without failing the caller.
type Notifier interface {
	NotifyBestEffort(ctx context.Context, n notifyservice.Notification)
}

// Logger is the logging surface the workflow needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
