package workorders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/docservice"
	"github.com/admedia/AMS-AdSalesService/internal/integrations/notifyservice"
)

// WorkOrderRepository is the work order storage surface the workflow needs.
type WorkOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error)
	UpdateStatus(ctx context.Context, id int64, status domain.WorkOrderStatus) error
	SetQuote(ctx context.Context, id int64, total decimal.Decimal, gstPercent decimal.Decimal, quotedBy int64, proformaRef *string) error
	SetProformaRef(ctx context.Context, id int64, ref string) error
	SetItemPrice(ctx context.Context, itemID int64, price decimal.Decimal) error
	SetNegotiation(ctx context.Context, id int64, reason string, at time.Time) error
	SetPORef(ctx context.Context, id int64, ref string) error
	SetRejection(ctx context.Context, id int64, reason string) error
}

// BookingRepository lets the workflow cascade status changes onto the shadow
// bookings of a rejected order.
type BookingRepository interface {
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// ReleaseOrderRepository lets invoice settlement propagate onto the release order.
type ReleaseOrderRepository interface {
	GetByWorkOrderID(ctx context.Context, workOrderID int64) (*domain.ReleaseOrder, error)
	SetPaymentStatus(ctx context.Context, id int64, status domain.ReleasePaymentStatus) error
}

// InstallmentScheduler opens the two-payment schedule on a shadow booking
// once the client accepts an installment-mode quote.
type InstallmentScheduler interface {
	GenerateInstallments(ctx context.Context, bookingID int64, total decimal.Decimal, startDate time.Time) ([]*domain.Installment, error)
}

// TransactionManager runs closures inside database transactions.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// DocGenerator renders billing documents downstream.
type DocGenerator interface {
	Generate(ctx context.Context, kind docservice.DocumentKind, workOrderID int64) (string, error)
}

// FileStore keeps uploaded files and hands back opaque references.
type FileStore interface {
	Store(ctx context.Context, category string, filename string, content []byte) (string, error)
}

// Notifier delivers notifications without failing the caller.
type Notifier interface {
	NotifyBestEffort(ctx context.Context, n notifyservice.Notification)
}

// Logger is the logging surface the workflow needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
