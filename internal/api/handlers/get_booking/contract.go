package get_booking

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type ReservationService interface {
	GetBooking(ctx context.Context, id int64) (*domain.Booking, []*domain.Approval, error)
	GetInstallments(ctx context.Context, bookingID int64) ([]*domain.Installment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
