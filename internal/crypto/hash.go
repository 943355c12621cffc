package crypto

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id для хеширования PIN
const (
	// Argon2Time - количество итераций (time cost)
	Argon2Time = 1
	// Argon2Memory - объем памяти в KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - количество параллельных потоков
	Argon2Threads = 4
	// Argon2KeyLen - длина выходного хеша в байтах
	Argon2KeyLen = 32
)

// Hasher derives a deterministic peppered digest from a PIN.
// The salt is derived from the installation pepper, so an identical
// pepper+PIN pair always yields an identical hash. The output is used
// for equality comparison only.
type Hasher struct {
	peppers *PepperStore
}

// NewHasher creates a new Hasher backed by the given PepperStore
func NewHasher(peppers *PepperStore) *Hasher {
	return &Hasher{peppers: peppers}
}

// Hash вычисляет Argon2id хеш PIN-кода с солью, производной от pepper,
// и возвращает его hex-encoded строкой фиксированной длины
func (h *Hasher) Hash(ctx context.Context, pin string) (string, error) {
	if pin == "" {
		return "", fmt.Errorf("pin cannot be empty")
	}

	pepper, err := h.peppers.GetOrCreatePepper(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get pepper: %w", err)
	}

	// Соль детерминированно производится от pepper:
	// один pepper на установку, один хеш на pepper+PIN
	salt := sha256.Sum256([]byte(pepper))

	key := argon2.IDKey([]byte(pin), salt[:], Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	return hex.EncodeToString(key), nil
}

// VerifyHash сравнивает два хеша за константное время
func VerifyHash(computed, stored string) bool {
	if computed == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}
