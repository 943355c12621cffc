package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/ettawallet/pinauth/internal/storage"
)

// Compile-time check that Storage implements SecureStorage
var _ storage.SecureStorage = (*Storage)(nil)

// secureItem - формат хранения значения вместе с его access policy
type secureItem struct {
	Value  []byte               `json:"value"`
	Policy storage.AccessPolicy `json:"policy"`
}

// GetItem retrieves the value stored under key.
// Policy-protected items go through the configured Prompter first.
func (s *Storage) GetItem(ctx context.Context, key string) ([]byte, error) {
	var item secureItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSecure)
		if bucket == nil {
			return fmt.Errorf("secure bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrItemNotFound
		}

		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("failed to unmarshal secure item: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Подтверждаем доступ к защищенному значению
	if item.Policy != storage.AccessPolicyNone && s.prompter != nil {
		ok, err := s.prompter(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("access prompt failed: %w", err)
		}
		if !ok {
			return nil, storage.ErrPromptCancelled
		}
	}

	return item.Value, nil
}

// SetItem stores value under key with no access policy
func (s *Storage) SetItem(ctx context.Context, key string, value []byte) error {
	return s.SetItemWithPolicy(ctx, key, value, storage.AccessPolicyNone)
}

// SetItemWithPolicy stores value under key guarded by the given policy
func (s *Storage) SetItemWithPolicy(ctx context.Context, key string, value []byte, policy storage.AccessPolicy) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSecure)
		if bucket == nil {
			return fmt.Errorf("secure bucket not found")
		}

		// Сериализуем значение вместе с policy
		data, err := json.Marshal(secureItem{Value: value, Policy: policy})
		if err != nil {
			return fmt.Errorf("failed to marshal secure item: %w", err)
		}

		if err := bucket.Put([]byte(key), data); err != nil {
			return fmt.Errorf("failed to save secure item: %w", err)
		}

		return nil
	})
}

// DeleteItem removes the value stored under key
func (s *Storage) DeleteItem(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSecure)
		if bucket == nil {
			return fmt.Errorf("secure bucket not found")
		}

		// Проверяем существование значения
		if bucket.Get([]byte(key)) == nil {
			return storage.ErrItemNotFound
		}

		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete secure item: %w", err)
		}

		return nil
	})
}
