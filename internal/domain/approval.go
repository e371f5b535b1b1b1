package domain

import "time"

// ApprovalRole identifies who acts at a pipeline stage.
type ApprovalRole string

const (
	RoleManager        ApprovalRole = "manager"
	RoleVP             ApprovalRole = "vp"
	RoleSeniorReviewer ApprovalRole = "senior_reviewer"
	RoleAccounts       ApprovalRole = "accounts"
	RoleIT             ApprovalRole = "it"
	RoleMaterial       ApprovalRole = "material"
	RoleClient         ApprovalRole = "client"
)

// Valid reports whether the role is one of the known values.
func (r ApprovalRole) Valid() bool {
	switch r {
	case RoleManager, RoleVP, RoleSeniorReviewer, RoleAccounts, RoleIT, RoleMaterial, RoleClient:
		return true
	}
	return false
}

// ApprovalStatus is the state of one pending decision.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Approval is one decision by a role at a pipeline stage, scoped to a booking.
// At most one approval per (booking, role) exists; duplicate creation is
// suppressed at the storage layer.
type Approval struct {
	ID        int64
	BookingID int64
	Role      ApprovalRole
	Status    ApprovalStatus
	ActedBy   *int64
	Reason    *string
	CreatedAt time.Time
	ClosedAt  *time.Time
}
