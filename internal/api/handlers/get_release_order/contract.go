package get_release_order

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type ReleaseOrderService interface {
	GetReleaseOrder(ctx context.Context, id int64) (*domain.ReleaseOrder, error)
}

type DeploymentTracker interface {
	ListDeployments(ctx context.Context, releaseOrderID int64) ([]*domain.Deployment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
