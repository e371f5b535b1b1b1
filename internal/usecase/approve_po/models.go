package approve_po

import "github.com/admedia/AMS-AdSalesService/internal/domain"

// Request identifies the work order whose purchase order is being approved.
type Request struct {
	WorkOrderID int64
	ActorID     int64
}

// Response is the release order the approval issued (or re-issued).
type Response struct {
	ReleaseOrderID int64
	Number         string
	WorkOrderID    int64
	Status         domain.ReleaseOrderStatus
	TaxInvoiceRef  *string
	Issued         bool // false when the call replayed an earlier approval
}
