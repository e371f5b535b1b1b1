package create_slot

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type CatalogService interface {
	CreateSlot(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
