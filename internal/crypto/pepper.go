package crypto

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ettawallet/pinauth/internal/storage"
)

const (
	// PepperSize - размер pepper в байтах до hex-кодирования
	PepperSize = 64

	// pepperStorageKey - ключ pepper в secure credential store
	pepperStorageKey = "pin_pepper"
)

// PepperStore lazily creates and persists the installation-wide pepper
// mixed into every PIN hash. The pepper lives exclusively in the secure
// credential store and is never regenerated once created.
type PepperStore struct {
	store storage.SecureStorage
}

// NewPepperStore creates a new PepperStore over the given credential store
func NewPepperStore(store storage.SecureStorage) *PepperStore {
	return &PepperStore{store: store}
}

// GetOrCreatePepper возвращает pepper из secure store, создавая его при
// первом обращении: 64 криптографически случайных байта, hex-encoded.
// Все последующие вызовы - чистые чтения.
func (p *PepperStore) GetOrCreatePepper(ctx context.Context) (string, error) {
	value, err := p.store.GetItem(ctx, pepperStorageKey)
	if err == nil {
		return string(value), nil
	}
	if !errors.Is(err, storage.ErrItemNotFound) {
		return "", fmt.Errorf("failed to read pepper: %w", err)
	}

	// Pepper еще не создан - генерируем
	raw := make([]byte, PepperSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate pepper: %w", err)
	}

	pepper := hex.EncodeToString(raw)

	if err := p.store.SetItem(ctx, pepperStorageKey, []byte(pepper)); err != nil {
		return "", fmt.Errorf("failed to persist pepper: %w", err)
	}

	return pepper, nil
}
