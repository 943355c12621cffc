package pincode

import "errors"

// Authentication errors
var (
	// ErrInvalidPin indicates a format or blocklist violation.
	// Rejected before any hashing or storage happens.
	ErrInvalidPin = errors.New("invalid pin")

	// ErrUserCancelled indicates that the user cancelled PIN entry.
	// Distinct from every other failure so callers can fall back
	// silently instead of showing an error.
	ErrUserCancelled = errors.New("pin entry cancelled by user")
)
