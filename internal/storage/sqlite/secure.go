package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ettawallet/pinauth/internal/storage"
)

// Compile-time check that Storage implements SecureStorage
var _ storage.SecureStorage = (*Storage)(nil)

// GetItem retrieves the value stored under key.
// Policy-protected items go through the configured Prompter first.
func (s *Storage) GetItem(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value, policy
		FROM secure_items
		WHERE key = ?
	`

	var value []byte
	var policy storage.AccessPolicy

	err := s.db.QueryRowContext(ctx, query, key).Scan(&value, &policy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get secure item: %w", err)
	}

	// Подтверждаем доступ к защищенному значению
	if policy != storage.AccessPolicyNone && s.prompter != nil {
		ok, err := s.prompter(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("access prompt failed: %w", err)
		}
		if !ok {
			return nil, storage.ErrPromptCancelled
		}
	}

	return value, nil
}

// SetItem stores value under key with no access policy
func (s *Storage) SetItem(ctx context.Context, key string, value []byte) error {
	return s.SetItemWithPolicy(ctx, key, value, storage.AccessPolicyNone)
}

// SetItemWithPolicy stores value under key guarded by the given policy
func (s *Storage) SetItemWithPolicy(ctx context.Context, key string, value []byte, policy storage.AccessPolicy) error {
	query := `
		INSERT INTO secure_items (key, value, policy, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			policy = excluded.policy,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, key, value, policy); err != nil {
		return fmt.Errorf("failed to save secure item: %w", err)
	}

	return nil
}

// DeleteItem removes the value stored under key
func (s *Storage) DeleteItem(ctx context.Context, key string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM secure_items WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete secure item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrItemNotFound
	}

	return nil
}
