package adapter

import "errors"

var (
	// ErrUnauthorized is returned when the server rejects the stored
	// credential (HTTP 401). It is the sole trigger for credential
	// invalidation in the engine.
	ErrUnauthorized = errors.New("client unauthorized")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
)
