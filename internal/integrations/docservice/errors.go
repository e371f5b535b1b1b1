package docservice

import "errors"

var (
	// ErrInternal is returned on client-side failures (request build, transport).
	ErrInternal = errors.New("docservice client: internal error")

	// ErrInvalidResponse is returned when the service answers with an
	// unexpected status or body.
	ErrInvalidResponse = errors.New("docservice client: invalid response")
)
