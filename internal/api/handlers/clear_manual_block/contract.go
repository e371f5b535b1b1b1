package clear_manual_block

import "context"

type CatalogService interface {
	ClearManualBlock(ctx context.Context, slotID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
