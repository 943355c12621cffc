package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ettawallet/pinauth/internal/models"
	"github.com/ettawallet/pinauth/internal/storage"
)

const (
	pinTypeKey     = "pin_type"
	secretCacheKey = "secret_cache"
)

// Compile-time check that Storage implements StateStorage
var _ storage.StateStorage = (*Storage)(nil)

// putState сохраняет значение в таблицу state_items с upsert семантикой
func (s *Storage) putState(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO state_items (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save state item: %w", err)
	}

	return nil
}

// getState читает значение из таблицы state_items
func (s *Storage) getState(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM state_items WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get state item: %w", err)
	}

	return value, nil
}

// SavePinType persists the configured pin type
func (s *Storage) SavePinType(ctx context.Context, pinType models.PinType) error {
	if !pinType.Valid() {
		return fmt.Errorf("invalid pin type: %q", pinType)
	}
	return s.putState(ctx, pinTypeKey, []byte(pinType))
}

// GetPinType retrieves the configured pin type
func (s *Storage) GetPinType(ctx context.Context) (models.PinType, error) {
	value, err := s.getState(ctx, pinTypeKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrPinTypeNotFound
		}
		return "", err
	}
	return models.PinType(value), nil
}

// SaveSecretCache persists the full secret-cache snapshot
func (s *Storage) SaveSecretCache(ctx context.Context, entries []*models.CacheEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal cache snapshot: %w", err)
	}
	return s.putState(ctx, secretCacheKey, data)
}

// GetSecretCache retrieves the persisted snapshot
func (s *Storage) GetSecretCache(ctx context.Context) ([]*models.CacheEntry, error) {
	data, err := s.getState(ctx, secretCacheKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCacheNotFound
		}
		return nil, err
	}

	var entries []*models.CacheEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache snapshot: %w", err)
	}

	return entries, nil
}
