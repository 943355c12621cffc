package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ettawallet/pinauth/internal/models"
	"github.com/ettawallet/pinauth/internal/storage"
)

// создаём тестовое in-memory SQLite хранилище
func createTestStorage(t *testing.T, opts ...Option) *Storage {
	t.Helper()

	store, err := New(context.Background(), ":memory:", opts...)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStorage_SetGetDeleteItem(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetItem(ctx, "pepper")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	err = store.SetItem(ctx, "pepper", []byte("secret-value"))
	require.NoError(t, err)

	value, err := store.GetItem(ctx, "pepper")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret-value"), value)

	// Upsert перезаписывает значение и policy
	err = store.SetItemWithPolicy(ctx, "pepper", []byte("other"), storage.AccessPolicyBiometryCurrentSet)
	require.NoError(t, err)

	value, err = store.GetItem(ctx, "pepper")
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), value)

	err = store.DeleteItem(ctx, "pepper")
	require.NoError(t, err)

	_, err = store.GetItem(ctx, "pepper")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	err = store.DeleteItem(ctx, "pepper")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)
}

func TestStorage_PolicyProtectedItem(t *testing.T) {
	ctx := context.Background()

	t.Run("prompter declines", func(t *testing.T) {
		store := createTestStorage(t, WithPrompter(func(ctx context.Context, key string) (bool, error) {
			return false, nil
		}))

		err := store.SetItemWithPolicy(ctx, "pin", []byte("482913"), storage.AccessPolicyBiometryCurrentSet)
		require.NoError(t, err)

		_, err = store.GetItem(ctx, "pin")
		assert.ErrorIs(t, err, storage.ErrPromptCancelled)
	})

	t.Run("prompter confirms", func(t *testing.T) {
		store := createTestStorage(t, WithPrompter(func(ctx context.Context, key string) (bool, error) {
			return true, nil
		}))

		err := store.SetItemWithPolicy(ctx, "pin", []byte("482913"), storage.AccessPolicyBiometryCurrentSet)
		require.NoError(t, err)

		value, err := store.GetItem(ctx, "pin")
		require.NoError(t, err)
		assert.Equal(t, []byte("482913"), value)
	})
}

func TestStorage_PinType(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetPinType(ctx)
	assert.ErrorIs(t, err, storage.ErrPinTypeNotFound)

	err = store.SavePinType(ctx, models.PinTypeDevice)
	require.NoError(t, err)

	pinType, err := store.GetPinType(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PinTypeDevice, pinType)

	err = store.SavePinType(ctx, models.PinType("bogus"))
	require.Error(t, err)
}

func TestStorage_SecretCacheSnapshot(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetSecretCache(ctx)
	assert.ErrorIs(t, err, storage.ErrCacheNotFound)

	entries := []*models.CacheEntry{
		{Account: "etta", Secret: "deadbeef", Timestamp: 1700000000000},
	}

	err = store.SaveSecretCache(ctx, entries)
	require.NoError(t, err)

	got, err := store.GetSecretCache(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entries[0], got[0])
}
