package approve_po

import (
	"context"
	"time"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/docservice"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
)

// WorkOrderRepository is the work order surface the use case needs.
type WorkOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error)
	SetPOApproved(ctx context.Context, id int64, actorID int64, at time.Time) error
}

// ReleaseOrderRepository is the release order surface the use case needs.
type ReleaseOrderRepository interface {
	CreateIfAbsent(ctx context.Context, ro *domain.ReleaseOrder) (*domain.ReleaseOrder, bool, error)
	ResetForReissue(ctx context.Context, id int64) error
	SetTaxInvoiceRef(ctx context.Context, id int64, ref string) error
}

// TransactionManager runs closures inside database transactions.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// DocGenerator renders billing documents downstream.
type DocGenerator interface {
	Generate(ctx context.Context, kind docservice.DocumentKind, workOrderID int64) (string, error)
}

// Notifier delivers notifications without failing the caller.
type Notifier interface {
	NotifyBestEffort(ctx context.Context, n notifyservice.Notification)
}

// Logger is the logging surface the use case needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
