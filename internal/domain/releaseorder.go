package domain

import "time"

// ReleaseOrderStatus represents the review stage of a release order
type ReleaseOrderStatus string

const (
	ROStatusPendingBannerUpload  ReleaseOrderStatus = "pending_banner_upload"
	ROStatusPendingManagerReview ReleaseOrderStatus = "pending_manager_review"
	ROStatusPendingVPReview      ReleaseOrderStatus = "pending_vp_review"
	ROStatusPendingSeniorReview  ReleaseOrderStatus = "pending_senior_review"
	ROStatusReadyForIT           ReleaseOrderStatus = "ready_for_it"
	ROStatusReadyForMaterial     ReleaseOrderStatus = "ready_for_material"
	ROStatusDeployed             ReleaseOrderStatus = "deployed"
)

// Valid reports whether the status is one of the known values.
func (s ReleaseOrderStatus) Valid() bool {
	switch s {
	case ROStatusPendingBannerUpload, ROStatusPendingManagerReview, ROStatusPendingVPReview,
		ROStatusPendingSeniorReview, ROStatusReadyForIT, ROStatusReadyForMaterial, ROStatusDeployed:
		return true
	}
	return false
}

// releaseRejectionTargets maps each stage a rejection is legal from to the
// stage it loops back to. Rejection never skips a stage.
var releaseRejectionTargets = map[ReleaseOrderStatus]ReleaseOrderStatus{
	ROStatusPendingVPReview:     ROStatusPendingManagerReview,
	ROStatusPendingSeniorReview: ROStatusPendingVPReview,
}

// RejectionTarget returns the stage a rejection from the given status loops
// back to, and whether rejection is legal there at all.
func RejectionTarget(from ReleaseOrderStatus) (ReleaseOrderStatus, bool) {
	t, ok := releaseRejectionTargets[from]
	return t, ok
}

// ApproveTarget returns the stage an approval from the given status advances
// to. hasMagazine drives the senior-review branch: any magazine item routes
// the order to the material team instead of IT.
func ApproveTarget(from ReleaseOrderStatus, hasMagazine bool) (ReleaseOrderStatus, bool) {
	switch from {
	case ROStatusPendingBannerUpload:
		return ROStatusPendingManagerReview, true
	case ROStatusPendingManagerReview:
		return ROStatusPendingVPReview, true
	case ROStatusPendingVPReview:
		return ROStatusPendingSeniorReview, true
	case ROStatusPendingSeniorReview:
		if hasMagazine {
			return ROStatusReadyForMaterial, true
		}
		return ROStatusReadyForIT, true
	}
	return "", false
}

// ReleasePaymentStatus tracks settlement of the underlying work order.
type ReleasePaymentStatus string

const (
	ReleasePaymentPending ReleasePaymentStatus = "pending"
	ReleasePaymentPaid    ReleasePaymentStatus = "paid"
)

// ReleaseOrder is the execution ticket created once a work order's purchase
// order is approved. Exactly one non-superseded release order exists per
// work order.
type ReleaseOrder struct {
	ID          int64
	Number      string // human-facing reference, uuid-based
	WorkOrderID int64
	Status      ReleaseOrderStatus

	RejectionReason *string
	RejectedBy      *int64
	RejectedAt      *time.Time

	PaymentStatus ReleasePaymentStatus
	TaxInvoiceRef *string // docservice reference, set on issue

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasOpenRejection reports whether a rejection reason is outstanding, which
// holds the banner-upload auto-advance until the client re-submits.
func (ro *ReleaseOrder) HasOpenRejection() bool {
	return ro.RejectionReason != nil && *ro.RejectionReason != ""
}

// IsReadyForDeployment reports whether the order sits in a deployment queue.
func (ro *ReleaseOrder) IsReadyForDeployment() bool {
	return ro.Status == ROStatusReadyForIT || ro.Status == ROStatusReadyForMaterial
}
