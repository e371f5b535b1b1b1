package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderStatus represents the status of a work order
type WorkOrderStatus string

const (
	WOStatusDraft          WorkOrderStatus = "draft"
	WOStatusQuoted         WorkOrderStatus = "quoted"
	WOStatusClientAccepted WorkOrderStatus = "client_accepted"
	WOStatusPaid           WorkOrderStatus = "paid"
	WOStatusActive         WorkOrderStatus = "active"
	WOStatusCompleted      WorkOrderStatus = "completed"
	WOStatusRejected       WorkOrderStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WOStatusDraft, WOStatusQuoted, WOStatusClientAccepted, WOStatusPaid,
		WOStatusActive, WOStatusCompleted, WOStatusRejected:
		return true
	}
	return false
}

// workOrderTransitions is the authoritative transition table. Status moves
// are monotonic; the negotiation loop is a flag reset on the quoted status,
// not a backward status move.
var workOrderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	WOStatusDraft:          {WOStatusQuoted, WOStatusRejected},
	WOStatusQuoted:         {WOStatusClientAccepted, WOStatusRejected},
	WOStatusClientAccepted: {WOStatusPaid, WOStatusActive, WOStatusRejected},
	WOStatusPaid:           {WOStatusActive},
	WOStatusActive:         {WOStatusCompleted},
}

// CanTransitionWorkOrder reports whether moving from `from` to `target` is legal.
func CanTransitionWorkOrder(from, target WorkOrderStatus) bool {
	for _, t := range workOrderTransitions[from] {
		if t == target {
			return true
		}
	}
	return false
}

// CanBeRejected reports whether a work order in this status may still be rejected.
func (s WorkOrderStatus) CanBeRejected() bool {
	return s == WOStatusDraft || s == WOStatusQuoted || s == WOStatusClientAccepted
}

// PaymentMode is how the client settles a work order.
type PaymentMode string

const (
	PaymentFull        PaymentMode = "full"
	PaymentInstallment PaymentMode = "installment"
	PaymentPayLater    PaymentMode = "pay_later"
)

// Valid reports whether the payment mode is one of the known values.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentFull, PaymentInstallment, PaymentPayLater:
		return true
	}
	return false
}

// AddOnType is a non-slot campaign line on a work order.
type AddOnType string

const (
	AddOnEmailCampaign    AddOnType = "email_campaign"
	AddOnWhatsAppCampaign AddOnType = "whatsapp_campaign"
)

// Valid reports whether the add-on type is one of the known values.
func (t AddOnType) Valid() bool {
	return t == AddOnEmailCampaign || t == AddOnWhatsAppCampaign
}

// WorkOrderItem is one line of a work order: either a slot reservation or an
// add-on campaign for a date range.
type WorkOrderItem struct {
	ID          int64
	WorkOrderID int64
	SlotID      *int64     // nil for add-on items
	AddOnType   *AddOnType // nil for slot items
	SectionKey  *string    // derived from the slot; nil for add-ons
	MediaType   *MediaType // denormalized from the slot for release routing
	Range       DateRange
	Price       decimal.Decimal
	BannerURL   *string // set once creative is uploaded
	BookingID   *int64  // shadow booking for slot items

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAddOn reports whether the item is a campaign add-on rather than a slot.
func (i *WorkOrderItem) IsAddOn() bool {
	return i.AddOnType != nil
}

// HasBanner reports whether creative has been uploaded for the item.
func (i *WorkOrderItem) HasBanner() bool {
	return i.BannerURL != nil && *i.BannerURL != ""
}

// WorkOrder is a client's aggregate purchase request.
type WorkOrder struct {
	ID          int64
	ClientID    int64
	Status      WorkOrderStatus
	PaymentMode PaymentMode
	GSTPercent  decimal.Decimal
	TotalAmount decimal.Decimal

	PORef        *string // filestore reference of the uploaded purchase order
	POApproved   bool
	POApprovedAt *time.Time
	POApprovedBy *int64

	NegotiationRequested   bool
	NegotiationReason      *string
	NegotiationRequestedAt *time.Time

	QuotedBy        *int64
	ProformaRef     *string // docservice reference of the proforma document
	RejectionReason *string

	Items []*WorkOrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubtotalWithGST sums item prices and applies the GST percentage on top.
func SubtotalWithGST(items []*WorkOrderItem, gstPercent decimal.Decimal) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price)
	}
	factor := decimal.NewFromInt(1).Add(gstPercent.Div(decimal.NewFromInt(100)))
	return subtotal.Mul(factor).Round(2)
}

// HasMagazineItem reports whether any slot item of the work order targets
// magazine inventory. Presence of a single magazine item forces material routing.
func (w *WorkOrder) HasMagazineItem() bool {
	for _, item := range w.Items {
		if item.MediaType != nil && *item.MediaType == MediaMagazine {
			return true
		}
	}
	return false
}

// AllBannersUploaded reports whether every non-add-on item has creative uploaded.
func (w *WorkOrder) AllBannersUploaded() bool {
	for _, item := range w.Items {
		if item.IsAddOn() {
			continue
		}
		if !item.HasBanner() {
			return false
		}
	}
	return true
}
