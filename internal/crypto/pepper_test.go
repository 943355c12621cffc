package crypto

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ettawallet/pinauth/internal/storage"
)

// mockSecureStorage - простой hand-written mock для SecureStorage интерфейса
type mockSecureStorage struct {
	items  map[string][]byte
	getErr error
	setErr error
}

func newMockSecureStorage() *mockSecureStorage {
	return &mockSecureStorage{items: make(map[string][]byte)}
}

func (m *mockSecureStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	value, ok := m.items[key]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	return value, nil
}

func (m *mockSecureStorage) SetItem(ctx context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

func (m *mockSecureStorage) SetItemWithPolicy(ctx context.Context, key string, value []byte, policy storage.AccessPolicy) error {
	return m.SetItem(ctx, key, value)
}

func (m *mockSecureStorage) DeleteItem(ctx context.Context, key string) error {
	if _, ok := m.items[key]; !ok {
		return storage.ErrItemNotFound
	}
	delete(m.items, key)
	return nil
}

func TestPepperStore_GetOrCreatePepper(t *testing.T) {
	ctx := context.Background()
	store := newMockSecureStorage()
	peppers := NewPepperStore(store)

	// Первый вызов создает pepper
	pepper, err := peppers.GetOrCreatePepper(ctx)
	require.NoError(t, err)

	// 64 байта, hex-encoded = 128 символов
	assert.Len(t, pepper, PepperSize*2)
	raw, err := hex.DecodeString(pepper)
	require.NoError(t, err)
	assert.Len(t, raw, PepperSize)

	// Pepper сохранен в secure store
	saved, err := store.GetItem(ctx, pepperStorageKey)
	require.NoError(t, err)
	assert.Equal(t, pepper, string(saved))

	// Повторные вызовы возвращают тот же pepper
	again, err := peppers.GetOrCreatePepper(ctx)
	require.NoError(t, err)
	assert.Equal(t, pepper, again)

	// И через новый PepperStore поверх того же хранилища
	other, err := NewPepperStore(store).GetOrCreatePepper(ctx)
	require.NoError(t, err)
	assert.Equal(t, pepper, other)
}

func TestPepperStore_StorageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("read failure propagates", func(t *testing.T) {
		store := newMockSecureStorage()
		store.getErr = errors.New("keychain unavailable")

		_, err := NewPepperStore(store).GetOrCreatePepper(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "keychain unavailable")
	})

	t.Run("write failure propagates", func(t *testing.T) {
		store := newMockSecureStorage()
		store.setErr = errors.New("keychain unavailable")

		_, err := NewPepperStore(store).GetOrCreatePepper(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to persist pepper")
	})
}
