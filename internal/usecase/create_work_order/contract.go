package create_work_order

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/reservations"
)

// SlotRepository is the slot read surface the use case needs.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// WorkOrderRepository is the work order storage surface the use case needs.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo *domain.WorkOrder) (*domain.WorkOrder, error)
	AddItem(ctx context.Context, item *domain.WorkOrderItem) error
}

// ReservationLedger opens the shadow booking behind each accepted slot item.
// Its availability and section checks run on the use case's transaction.
type ReservationLedger interface {
	CreateBooking(ctx context.Context, params reservations.CreateBookingParams) (*domain.Booking, error)
}

// TransactionManager runs closures inside database transactions.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging surface the use case needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
