package storage

import "errors"

// Common storage errors
var (
	// ErrItemNotFound indicates that no value exists under the requested key
	ErrItemNotFound = errors.New("secure item not found")

	// ErrPromptCancelled indicates that the user dismissed the access prompt
	// guarding a policy-protected item
	ErrPromptCancelled = errors.New("access prompt cancelled by user")

	// ErrPinTypeNotFound indicates that no pin type has been persisted yet
	ErrPinTypeNotFound = errors.New("pin type not found")

	// ErrCacheNotFound indicates that no secret cache snapshot exists
	ErrCacheNotFound = errors.New("secret cache snapshot not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
