package return_to_client

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type ReleaseOrderService interface {
	ReturnToClient(ctx context.Context, id int64, actorID int64, reason string) (*domain.ReleaseOrder, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
