package domain

import "errors"

// Error taxonomy shared by all services and use cases. Packages wrap these
// sentinels with context; the HTTP layer maps them to response codes.
var (
	// ErrValidation is returned for malformed input, before any write.
	ErrValidation = errors.New("validation error")

	// ErrConflict is returned on slot or section double-booking.
	ErrConflict = errors.New("conflict")

	// ErrPrecondition is returned when an operation misses a required
	// precondition (e.g. approving a purchase order that was never uploaded).
	ErrPrecondition = errors.New("precondition not met")

	// ErrInvalidState is returned when a state-machine transition is not
	// legal from the entity's current status.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
