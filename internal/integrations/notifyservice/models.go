package notifyservice

// NotificationType classifies a notification for the delivery service.
type NotificationType string

const (
	TypeQuoteReady          NotificationType = "quote_ready"
	TypeNegotiationRequest  NotificationType = "negotiation_request"
	TypeWorkOrderRejected   NotificationType = "work_order_rejected"
	TypeQuoteAccepted       NotificationType = "quote_accepted"
	TypeApprovalRequired    NotificationType = "approval_required"
	TypeBookingStatusChange NotificationType = "booking_status_change"
	TypeReleaseStageChange  NotificationType = "release_stage_change"
	TypeReleaseRejected     NotificationType = "release_rejected"
	TypeBannerRequired      NotificationType = "banner_required"
	TypeDeploymentComplete  NotificationType = "deployment_complete"
)

// Notification is the payload posted to the notification service.
type Notification struct {
	UserID  int64            `json:"user_id"`
	Role    string           `json:"role,omitempty"` // set for role-wide broadcasts
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// ErrorResponse is the error body returned by the notification service.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
