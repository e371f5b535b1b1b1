package get_booking

import (
	"time"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// ApprovalResponse HTTP model of one approval decision.
type ApprovalResponse struct {
	ID       int64      `json:"id"`
	Role     string     `json:"role"`
	Status   string     `json:"status"`
	ActedBy  *int64     `json:"actedBy,omitempty"`
	Reason   *string    `json:"reason,omitempty"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
}

// InstallmentResponse HTTP model of one installment.
type InstallmentResponse struct {
	Sequence int       `json:"sequence"`
	Amount   string    `json:"amount"`
	DueDate  time.Time `json:"dueDate"`
	Status   string    `json:"status"`
}

// BookingResponse HTTP model of a booking with its approval trail.
type BookingResponse struct {
	ID           int64                 `json:"id"`
	ClientID     int64                 `json:"clientId"`
	SlotID       int64                 `json:"slotId"`
	SectionKey   string                `json:"sectionKey"`
	StartDate    time.Time             `json:"startDate"`
	EndDate      time.Time             `json:"endDate"`
	Status       string                `json:"status"`
	TotalAmount  string                `json:"totalAmount"`
	WorkOrderID  *int64                `json:"workOrderId,omitempty"`
	Approvals    []ApprovalResponse    `json:"approvals"`
	Installments []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// FromDomain converts a booking and its trail to the HTTP model.
func FromDomain(b *domain.Booking, approvals []*domain.Approval, installments []*domain.Installment) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID,
		ClientID:    b.ClientID,
		SlotID:      b.SlotID,
		SectionKey:  b.SectionKey,
		StartDate:   b.Range.Start,
		EndDate:     b.Range.End,
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount.String(),
		WorkOrderID: b.WorkOrderID,
		Approvals:   make([]ApprovalResponse, 0, len(approvals)),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	for _, a := range approvals {
		resp.Approvals = append(resp.Approvals, ApprovalResponse{
			ID:       a.ID,
			Role:     string(a.Role),
			Status:   string(a.Status),
			ActedBy:  a.ActedBy,
			Reason:   a.Reason,
			ClosedAt: a.ClosedAt,
		})
	}
	for _, in := range installments {
		resp.Installments = append(resp.Installments, InstallmentResponse{
			Sequence: in.Sequence,
			Amount:   in.Amount.String(),
			DueDate:  in.DueDate,
			Status:   string(in.Status),
		})
	}
	return resp
}
