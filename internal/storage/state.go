package storage

import (
	"context"

	"github.com/ettawallet/pinauth/internal/models"
)

//go:generate moq -out state_mock.go . StateStorage

// StateStorage defines interface to the persistent key-value store used to
// snapshot subsystem state across process restarts: the configured PinType
// and the secret-cache entries (hashes and timestamps only, never raw PINs).
type StateStorage interface {
	// SavePinType persists the configured pin type
	SavePinType(ctx context.Context, pinType models.PinType) error

	// GetPinType retrieves the configured pin type.
	// Returns ErrPinTypeNotFound if none has been saved.
	GetPinType(ctx context.Context) (models.PinType, error)

	// SaveSecretCache persists the full secret-cache snapshot,
	// replacing any previous snapshot
	SaveSecretCache(ctx context.Context, entries []*models.CacheEntry) error

	// GetSecretCache retrieves the persisted snapshot.
	// Returns ErrCacheNotFound if none has been saved.
	GetSecretCache(ctx context.Context) ([]*models.CacheEntry, error)
}
