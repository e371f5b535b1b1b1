package reservations

import (
	"context"
	"time"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
	"github.com/admedia/AMS-AdSalesService/internal/service/conflicts"
)

// SlotRepository is the slot read surface the ledger needs.
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// BookingRepository is the booking storage surface the ledger needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetActiveEndedBefore(ctx context.Context, day time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	CreateInstallments(ctx context.Context, installments []*domain.Installment) ([]*domain.Installment, error)
	GetInstallmentsByBookingID(ctx context.Context, bookingID int64) ([]*domain.Installment, error)
}

// ApprovalRepository is the approval storage surface the ledger needs.
type ApprovalRepository interface {
	CreateIfAbsent(ctx context.Context, bookingID int64, role domain.ApprovalRole) (*domain.Approval, bool, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Approval, error)
	Close(ctx context.Context, bookingID int64, role domain.ApprovalRole, status domain.ApprovalStatus, actedBy int64, reason *string, at time.Time) error
}

// ConflictResolver decides whether a reservation may be created.
type ConflictResolver interface {
	CheckAvailability(ctx context.Context, slotID int64, rng domain.DateRange) (conflicts.Availability, error)
	CheckSectionConflict(ctx context.Context, clientID int64, sectionKey string, rng domain.DateRange, excludeWorkOrderID *int64) (bool, error)
}

// TransactionManager runs closures inside database transactions.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier delivers notifications without failing the caller.
type Notifier interface {
	NotifyBestEffort(ctx context.Context, n notifyservice.Notification)
}

// Logger is the logging surface the ledger needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
