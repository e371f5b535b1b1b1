package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is the settlement state of one installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

// Installment is one of the two payments a booking splits into when the work
// order uses installment mode: 50% due a week from creation, 50% due a week
// before the campaign starts.
type Installment struct {
	ID        int64
	BookingID int64
	Sequence  int // 1 or 2
	Amount    decimal.Decimal
	DueDate   time.Time
	Status    InstallmentStatus
	CreatedAt time.Time
}
