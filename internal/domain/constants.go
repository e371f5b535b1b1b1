package domain

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Installment schedule constants
const (
	// InstallmentCount is the fixed number of installments per booking.
	InstallmentCount = 2

	// FirstInstallmentDueDays is how many days from "now" the first 50% is due.
	FirstInstallmentDueDays = 7

	// SecondInstallmentLeadDays is how many days before the campaign start
	// the second 50% is due.
	SecondInstallmentLeadDays = 7
)

// Business validation constants
const (
	MaxRejectionReasonLength   = 500
	MaxNegotiationReasonLength = 500
	MaxBlockReasonLength       = 500
)
