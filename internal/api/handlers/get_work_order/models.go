package get_work_order

import (
	"time"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// ItemResponse HTTP model of one work order line.
type ItemResponse struct {
	ID         int64   `json:"id"`
	SlotID     *int64  `json:"slotId,omitempty"`
	AddOnType  *string `json:"addOnType,omitempty"`
	SectionKey *string `json:"sectionKey,omitempty"`
	MediaType  *string `json:"mediaType,omitempty"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Price      string  `json:"price"`
	BannerURL  *string `json:"bannerUrl,omitempty"`
	BookingID  *int64  `json:"bookingId,omitempty"`
}

// WorkOrderResponse HTTP model of a work order.
type WorkOrderResponse struct {
	ID          int64          `json:"id"`
	ClientID    int64          `json:"clientId"`
	Status      string         `json:"status"`
	PaymentMode string         `json:"paymentMode"`
	GSTPercent  string         `json:"gstPercent"`
	TotalAmount string         `json:"totalAmount"`
	PORef       *string        `json:"poRef,omitempty"`
	POApproved  bool           `json:"poApproved"`
	POApprovedAt *time.Time    `json:"poApprovedAt,omitempty"`
	Negotiation *Negotiation   `json:"negotiation,omitempty"`
	QuotedBy    *int64         `json:"quotedBy,omitempty"`
	ProformaRef *string        `json:"proformaRef,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	Items       []ItemResponse `json:"items"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Negotiation HTTP model of an open negotiation request.
type Negotiation struct {
	Reason      string     `json:"reason"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
}

// FromDomain converts a work order to its HTTP model.
func FromDomain(wo *domain.WorkOrder) *WorkOrderResponse {
	resp := &WorkOrderResponse{
		ID:              wo.ID,
		ClientID:        wo.ClientID,
		Status:          string(wo.Status),
		PaymentMode:     string(wo.PaymentMode),
		GSTPercent:      wo.GSTPercent.StringFixed(2),
		TotalAmount:     wo.TotalAmount.StringFixed(2),
		PORef:           wo.PORef,
		POApproved:      wo.POApproved,
		POApprovedAt:    wo.POApprovedAt,
		QuotedBy:        wo.QuotedBy,
		ProformaRef:     wo.ProformaRef,
		RejectionReason: wo.RejectionReason,
		Items:           make([]ItemResponse, 0, len(wo.Items)),
		CreatedAt:       wo.CreatedAt,
		UpdatedAt:       wo.UpdatedAt,
	}

	if wo.NegotiationRequested && wo.NegotiationReason != nil {
		resp.Negotiation = &Negotiation{
			Reason:      *wo.NegotiationReason,
			RequestedAt: wo.NegotiationRequestedAt,
		}
	}

	for _, item := range wo.Items {
		var addOn, mediaType *string
		if item.AddOnType != nil {
			s := string(*item.AddOnType)
			addOn = &s
		}
		if item.MediaType != nil {
			s := string(*item.MediaType)
			mediaType = &s
		}
		resp.Items = append(resp.Items, ItemResponse{
			ID:         item.ID,
			SlotID:     item.SlotID,
			AddOnType:  addOn,
			SectionKey: item.SectionKey,
			MediaType:  mediaType,
			StartDate:  item.Range.Start.Format(domain.DateFormat),
			EndDate:    item.Range.End.Format(domain.DateFormat),
			Price:      item.Price.StringFixed(2),
			BannerURL:  item.BannerURL,
			BookingID:  item.BookingID,
		})
	}

	return resp
}
