package boltdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ettawallet/pinauth/internal/storage"
)

// создаём тестовое BoltDB хранилище во временной директории
func createTestStorage(t *testing.T, opts ...Option) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "pinauth_test.db")

	store, err := New(context.Background(), dbPath, opts...)
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

	// До сохранения - ErrItemNotFound
	_, err := store.GetItem(ctx, "pepper")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	// Сохраняем и читаем
	err = store.SetItem(ctx, "pepper", []byte("secret-value"))
	require.NoError(t, err)

	value, err := store.GetItem(ctx, "pepper")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret-value"), value)

	// Перезапись
	err = store.SetItem(ctx, "pepper", []byte("other-value"))
	require.NoError(t, err)

	value, err = store.GetItem(ctx, "pepper")
	require.NoError(t, err)
	assert.Equal(t, []byte("other-value"), value)

	// Удаляем
	err = store.DeleteItem(ctx, "pepper")
	require.NoError(t, err)

	_, err = store.GetItem(ctx, "pepper")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)

	// Повторное удаление - ErrItemNotFound
	err = store.DeleteItem(ctx, "pepper")
	assert.ErrorIs(t, err, storage.ErrItemNotFound)
}

func TestStorage_PolicyProtectedItem(t *testing.T) {
	ctx := context.Background()

	t.Run("prompter confirms", func(t *testing.T) {
		prompted := 0
		store := createTestStorage(t, WithPrompter(func(ctx context.Context, key string) (bool, error) {
			prompted++
			return true, nil
		}))

		err := store.SetItemWithPolicy(ctx, "pin", []byte("482913"), storage.AccessPolicyBiometryCurrentSet)
		require.NoError(t, err)

		value, err := store.GetItem(ctx, "pin")
		require.NoError(t, err)
		assert.Equal(t, []byte("482913"), value)
		assert.Equal(t, 1, prompted)
	})

	t.Run("prompter declines", func(t *testing.T) {
		store := createTestStorage(t, WithPrompter(func(ctx context.Context, key string) (bool, error) {
			return false, nil
		}))

		err := store.SetItemWithPolicy(ctx, "pin", []byte("482913"), storage.AccessPolicyBiometryCurrentSet)
		require.NoError(t, err)

		_, err = store.GetItem(ctx, "pin")
		assert.ErrorIs(t, err, storage.ErrPromptCancelled)
	})

	t.Run("prompter fails", func(t *testing.T) {
		store := createTestStorage(t, WithPrompter(func(ctx context.Context, key string) (bool, error) {
			return false, errors.New("sensor busy")
		}))

		err := store.SetItemWithPolicy(ctx, "pin", []byte("482913"), storage.AccessPolicyBiometryCurrentSet)
		require.NoError(t, err)

		_, err = store.GetItem(ctx, "pin")
		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrPromptCancelled)
		assert.Contains(t, err.Error(), "sensor busy")
	})

	t.Run("unprotected item skips prompter", func(t *testing.T) {
		store := createTestStorage(t, WithPrompter(func(ctx context.Context, key string) (bool, error) {
			t.Fatal("prompter must not be called for unprotected items")
			return false, nil
		}))

		err := store.SetItem(ctx, "pepper", []byte("value"))
		require.NoError(t, err)

		value, err := store.GetItem(ctx, "pepper")
		require.NoError(t, err)
		assert.Equal(t, []byte("value"), value)
	})
}
