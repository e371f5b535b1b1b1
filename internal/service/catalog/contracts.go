package catalog

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// SlotRepository is the slot storage surface the catalog needs.
type SlotRepository interface {
	Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	SetManualBlock(ctx context.Context, id int64, block domain.ManualBlock) error
	ClearManualBlock(ctx context.Context, id int64) error
}

// WorkOrderRepository is the item read surface used by the block-window
// conflict check.
type WorkOrderRepository interface {
	GetItemsBySlotOverlapping(ctx context.Context, slotID int64, rng domain.DateRange) ([]*domain.WorkOrderItem, error)
}

// TransactionManager runs closures inside database transactions.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging surface the catalog needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
