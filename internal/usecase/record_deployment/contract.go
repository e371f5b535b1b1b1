package record_deployment

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// DeploymentTracker records deployments and detects completion.
type DeploymentTracker interface {
	RecordDeployment(ctx context.Context, releaseOrderID, itemID, deployedBy int64) (*domain.Deployment, bool, error)
	IsFullyDeployed(ctx context.Context, releaseOrderID int64) (bool, error)
}

// Logger is the logging surface the use case needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
