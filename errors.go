package nslru

import "errors"

// Sentinel errors returned for invalid configuration.
var (
	// ErrInvalidCapacity is returned when a capacity is negative.
	ErrInvalidCapacity = errors.New("nslru: capacity must not be negative")

	// ErrInvalidTTL is returned when a TTL is negative.
	ErrInvalidTTL = errors.New("nslru: TTL must not be negative")

	// ErrInvalidComponentID is returned by [Registry.Bind] when a component ID
	// contains the scope separator.
	ErrInvalidComponentID = errors.New("nslru: component ID must not contain " + ScopeSeparator)
)
