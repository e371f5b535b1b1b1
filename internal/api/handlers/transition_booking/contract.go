package transition_booking

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type ReservationService interface {
	TransitionStatus(ctx context.Context, id int64, target domain.BookingStatus, actorRole domain.ApprovalRole, actorID int64, reason *string) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, []*domain.Approval, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
