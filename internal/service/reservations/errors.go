package reservations

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("reservations: booking not found")

	// ErrSlotNotFound is returned when the slot does not exist.
	ErrSlotNotFound = errors.New("reservations: slot not found")

	// ErrInternal is returned on repository failures.
	ErrInternal = errors.New("reservations: internal error")
)
