package upload_po

import "context"

type WorkOrderService interface {
	UploadPO(ctx context.Context, id int64, filename string, content []byte) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
