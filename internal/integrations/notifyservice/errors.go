package notifyservice

import "errors"

var (
	// ErrInternal is returned on client-side failures (request build, transport).
	ErrInternal = errors.New("notifyservice client: internal error")

	// ErrInvalidResponse is returned when the service answers with an
	// unexpected status or body.
	ErrInvalidResponse = errors.New("notifyservice client: invalid response")
)
