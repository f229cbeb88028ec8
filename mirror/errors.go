package mirror

import "errors"

// Sentinel errors for mirror operations.
var (
	// ErrNotFound is returned when no snapshot exists for a namespace.
	ErrNotFound = errors.New("mirror: snapshot not found")

	// ErrMarshal is returned when a snapshot cannot be serialized.
	ErrMarshal = errors.New("mirror: failed to marshal snapshot")

	// ErrUnmarshal is returned when a stored snapshot cannot be decoded.
	ErrUnmarshal = errors.New("mirror: failed to unmarshal snapshot")

	// ErrEmptyConnectionURL is returned by Open when the URL is empty.
	ErrEmptyConnectionURL = errors.New("mirror: empty connection URL")

	// ErrFailedToParseURL is returned by Open when the URL is not a valid Redis URL.
	ErrFailedToParseURL = errors.New("mirror: failed to parse connection URL")

	// ErrConnectionFailed is returned by Open when the server cannot be reached.
	ErrConnectionFailed = errors.New("mirror: failed to establish connection")
)
