package create_work_order

import (
	"time"

	createWorkOrder "github.com/admedia/AMS-AdSalesService/internal/usecase/create_work_order"
)

// ItemRequest HTTP model of one requested line.
type ItemRequest struct {
	SlotID    *int64  `json:"slotId,omitempty"`
	AddOnType *string `json:"addOnType,omitempty"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}

// CreateWorkOrderRequest HTTP request model.
type CreateWorkOrderRequest struct {
	PaymentMode string        `json:"paymentMode"`
	Items       []ItemRequest `json:"items"`
}

// ItemResponse HTTP model of one accepted line.
type ItemResponse struct {
	ID         int64   `json:"id"`
	SlotID     *int64  `json:"slotId,omitempty"`
	AddOnType  *string `json:"addOnType,omitempty"`
	SectionKey *string `json:"sectionKey,omitempty"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Price      string  `json:"price"`
	BookingID  *int64  `json:"bookingId,omitempty"`
}

// SkippedResponse HTTP model of one skipped line.
type SkippedResponse struct {
	SlotID int64  `json:"slotId"`
	Range  string `json:"range"`
	Reason string `json:"reason"`
}

// CreateWorkOrderResponse HTTP response model.
type CreateWorkOrderResponse struct {
	ID          int64             `json:"id"`
	ClientID    int64             `json:"clientId"`
	Status      string            `json:"status"`
	PaymentMode string            `json:"paymentMode"`
	Items       []ItemResponse    `json:"items"`
	Skipped     []SkippedResponse `json:"skipped,omitempty"`
	CreatedAt   string            `json:"createdAt"`
}

// ToUseCaseRequest converts the HTTP request to the use case model.
func (r *CreateWorkOrderRequest) ToUseCaseRequest(clientID int64) *createWorkOrder.Request {
	items := make([]createWorkOrder.ItemRequest, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, createWorkOrder.ItemRequest{
			SlotID:    item.SlotID,
			AddOnType: item.AddOnType,
			StartDate: item.StartDate,
			EndDate:   item.EndDate,
		})
	}
	return &createWorkOrder.Request{
		ClientID:    clientID,
		PaymentMode: r.PaymentMode,
		Items:       items,
	}
}

// FromUseCaseResponse converts the use case response to the HTTP model.
func FromUseCaseResponse(resp *createWorkOrder.Response) *CreateWorkOrderResponse {
	out := &CreateWorkOrderResponse{
		ID:          resp.ID,
		ClientID:    resp.ClientID,
		Status:      string(resp.Status),
		PaymentMode: string(resp.PaymentMode),
		Items:       make([]ItemResponse, 0, len(resp.Items)),
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range resp.Items {
		out.Items = append(out.Items, ItemResponse{
			ID:         item.ID,
			SlotID:     item.SlotID,
			AddOnType:  item.AddOnType,
			SectionKey: item.SectionKey,
			StartDate:  item.StartDate,
			EndDate:    item.EndDate,
			Price:      item.Price.StringFixed(2),
			BookingID:  item.BookingID,
		})
	}
	for _, skipped := range resp.Skipped {
		out.Skipped = append(out.Skipped, SkippedResponse{
			SlotID: skipped.SlotID,
			Range:  skipped.Range,
			Reason: skipped.Reason,
		})
	}
	return out
}
