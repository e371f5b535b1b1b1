package conflicts

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// SlotRepository is the slot read surface the resolver needs.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// BookingRepository is the booking read surface the resolver needs.
type BookingRepository interface {
	GetBlockingBySlotOverlapping(ctx context.Context, slotID int64, rng domain.DateRange) ([]*domain.Booking, error)
	GetBlockingBySectionOverlapping(ctx context.Context, clientID int64, sectionKey string, rng domain.DateRange, excludeWorkOrderID *int64) ([]*domain.Booking, error)
}

// Logger is the logging surface the resolver needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
