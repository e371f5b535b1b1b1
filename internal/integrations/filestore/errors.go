package filestore

import "errors"

var (
	// ErrInternal is returned on client-side failures (request build, transport).
	ErrInternal = errors.New("filestore client: internal error")

	// ErrInvalidResponse is returned when the store answers with an
	// unexpected status or body.
	ErrInvalidResponse = errors.New("filestore client: invalid response")
)
