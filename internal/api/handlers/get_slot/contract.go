package get_slot

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type CatalogService interface {
	GetSlot(ctx context.Context, id int64) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
