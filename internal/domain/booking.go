package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusRequested           BookingStatus = "requested"
	StatusPendingManager      BookingStatus = "pending_manager"
	StatusPendingVP           BookingStatus = "pending_vp"
	StatusPendingSeniorReview BookingStatus = "pending_senior_review"
	StatusPendingPayment      BookingStatus = "pending_payment"
	StatusPendingDeployment   BookingStatus = "pending_deployment"
	StatusActive              BookingStatus = "active"
	StatusPaused              BookingStatus = "paused"
	StatusRejected            BookingStatus = "rejected"
	StatusExpired             BookingStatus = "expired"
)

// Valid reports whether the status is one of the known values.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusRequested, StatusPendingManager, StatusPendingVP, StatusPendingSeniorReview,
		StatusPendingPayment, StatusPendingDeployment, StatusActive, StatusPaused,
		StatusRejected, StatusExpired:
		return true
	}
	return false
}

// BlockingStatuses are booking states that occupy a slot for conflict purposes.
// Rejected and expired bookings never block.
var BlockingStatuses = []BookingStatus{
	StatusRequested,
	StatusPendingManager,
	StatusPendingVP,
	StatusPendingSeniorReview,
	StatusPendingPayment,
	StatusPendingDeployment,
	StatusActive,
	StatusPaused,
}

// IsBlocking reports whether the status counts as occupying a slot.
func (s BookingStatus) IsBlocking() bool {
	return s != StatusRejected && s != StatusExpired && s.Valid()
}

// IsPendingStage reports whether the status is one of the approval stages a
// rejection may be entered from.
func (s BookingStatus) IsPendingStage() bool {
	switch s {
	case StatusPendingManager, StatusPendingVP, StatusPendingSeniorReview,
		StatusPendingPayment, StatusPendingDeployment:
		return true
	}
	return false
}

// Booking is a client's claim on one slot for a date range.
type Booking struct {
	ID          int64
	ClientID    int64
	SlotID      int64
	SectionKey  string
	Range       DateRange
	Status      BookingStatus
	TotalAmount decimal.Decimal
	WorkOrderID *int64 // set when the booking shadows a work order item

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking reports whether the booking occupies its slot.
func (b *Booking) IsBlocking() bool {
	return b.Status.IsBlocking()
}

// BookingStage describes one approval stage of the booking pipeline: the role
// whose approval closes the stage, the status reached on approval, and the
// role whose approval opens next (nil on the final stage).
type BookingStage struct {
	Role     ApprovalRole
	Next     BookingStatus
	NextRole *ApprovalRole
}

// bookingStages is the authoritative stage table. Keys are the statuses a
// transition may start from; anything not listed is illegal.
var bookingStages = map[BookingStatus]BookingStage{
	StatusRequested:           {Role: RoleManager, Next: StatusPendingManager, NextRole: rolePtr(RoleManager)},
	StatusPendingManager:      {Role: RoleManager, Next: StatusPendingVP, NextRole: rolePtr(RoleVP)},
	StatusPendingVP:           {Role: RoleVP, Next: StatusPendingSeniorReview, NextRole: rolePtr(RoleSeniorReviewer)},
	StatusPendingSeniorReview: {Role: RoleSeniorReviewer, Next: StatusPendingPayment, NextRole: rolePtr(RoleAccounts)},
	StatusPendingPayment:      {Role: RoleAccounts, Next: StatusPendingDeployment, NextRole: rolePtr(RoleIT)},
	StatusPendingDeployment:   {Role: RoleIT, Next: StatusActive, NextRole: nil},
}

// StageFor returns the approval stage a booking in the given status is at.
func StageFor(status BookingStatus) (BookingStage, bool) {
	st, ok := bookingStages[status]
	return st, ok
}

// CanTransitionBooking reports whether moving from `from` to `target` is legal.
// Forward moves must follow the stage table; `rejected` may be entered from
// any pending stage; pause/resume toggles between active and paused.
func CanTransitionBooking(from, target BookingStatus) bool {
	if target == StatusRejected {
		return from.IsPendingStage() || from == StatusRequested
	}
	if from == StatusActive && target == StatusPaused {
		return true
	}
	if from == StatusPaused && target == StatusActive {
		return true
	}
	st, ok := bookingStages[from]
	return ok && st.Next == target
}

func rolePtr(r ApprovalRole) *ApprovalRole {
	return &r
}
