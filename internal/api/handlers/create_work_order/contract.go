package create_work_order

import (
	"context"

	createWorkOrder "github.com/admedia/AMS-AdSalesService/internal/usecase/create_work_order"
)

type CreateWorkOrderUseCase interface {
	Execute(ctx context.Context, req *createWorkOrder.Request) (*createWorkOrder.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
