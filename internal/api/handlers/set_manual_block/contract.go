package set_manual_block

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type CatalogService interface {
	SetManualBlock(ctx context.Context, slotID int64, window domain.DateRange, reason string, managerID int64) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
