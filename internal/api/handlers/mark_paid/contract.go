package mark_paid

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type WorkOrderService interface {
	MarkPaid(ctx context.Context, id int64) (*domain.WorkOrder, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
