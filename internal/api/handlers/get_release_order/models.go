package get_release_order

import (
	"time"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

// DeploymentResponse HTTP model of one deployment record.
type DeploymentResponse struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"itemId"`
	DeployedBy int64     `json:"deployedBy"`
	DeployedAt time.Time `json:"deployedAt"`
}

// RejectionResponse HTTP model of an outstanding rejection.
type RejectionResponse struct {
	Reason     string     `json:"reason"`
	RejectedBy *int64     `json:"rejectedBy,omitempty"`
	RejectedAt *time.Time `json:"rejectedAt,omitempty"`
}

// ReleaseOrderResponse HTTP model of a release order.
type ReleaseOrderResponse struct {
	ID            int64                `json:"id"`
	Number        string               `json:"number"`
	WorkOrderID   int64                `json:"workOrderId"`
	Status        string               `json:"status"`
	PaymentStatus string               `json:"paymentStatus"`
	TaxInvoiceRef *string              `json:"taxInvoiceRef,omitempty"`
	Rejection     *RejectionResponse   `json:"rejection,omitempty"`
	Deployments   []DeploymentResponse `json:"deployments,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// FromDomain converts a release order to its HTTP model. A nil release
// order converts to nil.
func FromDomain(ro *domain.ReleaseOrder, deployments []*domain.Deployment) *ReleaseOrderResponse {
	if ro == nil {
		return nil
	}
	resp := &ReleaseOrderResponse{
		ID:            ro.ID,
		Number:        ro.Number,
		WorkOrderID:   ro.WorkOrderID,
		Status:        string(ro.Status),
		PaymentStatus: string(ro.PaymentStatus),
		TaxInvoiceRef: ro.TaxInvoiceRef,
		CreatedAt:     ro.CreatedAt,
		UpdatedAt:     ro.UpdatedAt,
	}
	if ro.HasOpenRejection() {
		resp.Rejection = &RejectionResponse{
			Reason:     *ro.RejectionReason,
			RejectedBy: ro.RejectedBy,
			RejectedAt: ro.RejectedAt,
		}
	}
	for _, d := range deployments {
		resp.Deployments = append(resp.Deployments, DeploymentResponse{
			ID:         d.ID,
			ItemID:     d.WorkOrderItemID,
			DeployedBy: d.DeployedBy,
			DeployedAt: d.DeployedAt,
		})
	}
	return resp
}
