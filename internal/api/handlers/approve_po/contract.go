package approve_po

import (
	"context"

	approvePO "github.com/admedia/AMS-AdSalesService/internal/usecase/approve_po"
)

type ApprovePOUseCase interface {
	Execute(ctx context.Context, req *approvePO.Request) (*approvePO.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
