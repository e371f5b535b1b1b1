package list_slots

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type CatalogService interface {
	ListSlots(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
