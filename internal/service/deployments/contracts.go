package deployments

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
)

// DeploymentRepository is the deployment storage surface the tracker needs.
type DeploymentRepository interface {
	CreateIfAbsent(ctx context.Context, d *domain.Deployment) (*domain.Deployment, bool, error)
	GetByItemID(ctx context.Context, itemID int64) (*domain.Deployment, error)
	ListByReleaseOrderID(ctx context.Context, releaseOrderID int64) ([]*domain.Deployment, error)
}

// ReleaseOrderRepository is the release order surface the tracker needs.
type ReleaseOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ReleaseOrder, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReleaseOrderStatus) error
}

// WorkOrderRepository is the work order surface the tracker needs.
type WorkOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error)
	UpdateStatus(ctx context.Context, id int64, status domain.WorkOrderStatus) error
}

// TransactionManager runs closures inside database transactions.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers notifications without failing the caller.
type Notifier interface {
	NotifyBestEffort(ctx context.Context, n notifyservice.Notification)
}

// Logger is the logging surface the tracker needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
