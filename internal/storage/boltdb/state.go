package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/ettawallet/pinauth/internal/models"
	"github.com/ettawallet/pinauth/internal/storage"
)

var (
	pinTypeKey     = []byte("pin_type")
	secretCacheKey = []byte("secret_cache")
)

// Compile-time check that Storage implements StateStorage
var _ storage.StateStorage = (*Storage)(nil)

// SavePinType persists the configured pin type
func (s *Storage) SavePinType(ctx context.Context, pinType models.PinType) error {
	if !pinType.Valid() {
		return fmt.Errorf("invalid pin type: %q", pinType)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if bucket == nil {
			return fmt.Errorf("state bucket not found")
		}

		if err := bucket.Put(pinTypeKey, []byte(pinType)); err != nil {
			return fmt.Errorf("failed to save pin type: %w", err)
		}

		return nil
	})
}

// GetPinType retrieves the configured pin type
func (s *Storage) GetPinType(ctx context.Context) (models.PinType, error) {
	var pinType models.PinType

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if bucket == nil {
			return fmt.Errorf("state bucket not found")
		}

		data := bucket.Get(pinTypeKey)
		if data == nil {
			return storage.ErrPinTypeNotFound
		}

		pinType = models.PinType(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return pinType, nil
}

// SaveSecretCache persists the full secret-cache snapshot
func (s *Storage) SaveSecretCache(ctx context.Context, entries []*models.CacheEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if bucket == nil {
			return fmt.Errorf("state bucket not found")
		}

		// Сериализуем snapshot в JSON
		data, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal cache snapshot: %w", err)
		}

		if err := bucket.Put(secretCacheKey, data); err != nil {
			return fmt.Errorf("failed to save cache snapshot: %w", err)
		}

		return nil
	})
}

// GetSecretCache retrieves the persisted snapshot
func (s *Storage) GetSecretCache(ctx context.Context) ([]*models.CacheEntry, error) {
	var entries []*models.CacheEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if bucket == nil {
			return fmt.Errorf("state bucket not found")
		}

		data := bucket.Get(secretCacheKey)
		if data == nil {
			return storage.ErrCacheNotFound
		}

		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("failed to unmarshal cache snapshot: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
