package record_deployment

import (
	"context"

	recordDeployment "github.com/admedia/AMS-AdSalesService/internal/usecase/record_deployment"
)

type RecordDeploymentUseCase interface {
	Execute(ctx context.Context, req *recordDeployment.Request) (*recordDeployment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
