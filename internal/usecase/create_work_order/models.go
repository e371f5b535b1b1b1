package create_work_order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// ItemRequest is one requested line: exactly one of SlotID and AddOnType
// must be set.
type ItemRequest struct {
	SlotID    *int64
	AddOnType *string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// Request carries a client's draft purchase.
type Request struct {
	ClientID    int64
	PaymentMode string
	Items       []ItemRequest
}

// SkippedItem reports one requested slot line the draft could not take.
type SkippedItem struct {
	SlotID int64
	Range  string
	Reason string
}

// ResponseItem is one accepted line of the created draft.
type ResponseItem struct {
	ID         int64
	SlotID     *int64
	AddOnType  *string
	SectionKey *string
	StartDate  string
	EndDate    string
	Price      decimal.Decimal
	BookingID  *int64
}

// Response is the created draft together with the lines that were skipped.
type Response struct {
	ID          int64
	ClientID    int64
	Status      domain.WorkOrderStatus
	PaymentMode domain.PaymentMode
	Items       []ResponseItem
	Skipped     []SkippedItem
	CreatedAt   time.Time
}
