package get_work_order

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type WorkOrderService interface {
	GetWorkOrder(ctx context.Context, id int64) (*domain.WorkOrder, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
