// Package biometry stores the raw PIN behind the platform's biometric
// access policy so it can be retrieved without re-entry.
package biometry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ettawallet/pinauth/internal/storage"
)

// ErrCancelled indicates that the user dismissed the biometric prompt.
// Callers distinguish it from all other failures to fall back silently
// instead of showing an error.
var ErrCancelled = errors.New("biometric prompt cancelled by user")

const (
	// pinStorageKey - ключ PIN-кода в secure credential store
	pinStorageKey = "pin_device"

	// DefaultSettleDelay - пауза после успешной записи, чтобы нативная
	// анимация подтверждения успела завершиться до перехода UI.
	// UX-костыль, не требование корректности.
	DefaultSettleDelay = 800 * time.Millisecond
)

// Gate stores, retrieves and deletes the raw PIN in the secure credential
// store under a policy requiring biometric re-authentication on every read
type Gate struct {
	store  storage.SecureStorage
	caps   storage.CapabilityChecker
	logger *slog.Logger
	settle time.Duration
}

// Option configures optional Gate behavior
type Option func(*Gate)

// WithSettleDelay переопределяет паузу после записи (для тестов)
func WithSettleDelay(d time.Duration) Option {
	return func(g *Gate) {
		g.settle = d
	}
}

// New creates a Gate over the given credential store and capability checker
func New(store storage.SecureStorage, caps storage.CapabilityChecker, logger *slog.Logger, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		caps:   caps,
		logger: logger,
		settle: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Available reports whether the device offers any biometric modality
func (g *Gate) Available(ctx context.Context) (bool, error) {
	modality, err := g.caps.SupportedBiometry(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to query biometry capability: %w", err)
	}
	return modality != storage.BiometryNone, nil
}

// Store writes the raw PIN into the credential store behind the biometric
// access policy. May trigger a native enrollment/confirmation prompt.
// After a successful write it waits the settle delay before returning.
func (g *Gate) Store(ctx context.Context, pin string) error {
	err := g.store.SetItemWithPolicy(ctx, pinStorageKey, []byte(pin), storage.AccessPolicyBiometryCurrentSet)
	if err != nil {
		if errors.Is(err, storage.ErrPromptCancelled) {
			return ErrCancelled
		}
		return fmt.Errorf("failed to store pin: %w", err)
	}

	// Даем нативной анимации подтверждения завершиться
	if g.settle > 0 {
		select {
		case <-time.After(g.settle):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// Retrieve reads the PIN from the credential store, triggering a biometric
// prompt. Dismissal of the prompt is reported as ErrCancelled, distinct
// from every other failure.
func (g *Gate) Retrieve(ctx context.Context) (string, error) {
	value, err := g.store.GetItem(ctx, pinStorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrPromptCancelled) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("failed to retrieve pin: %w", err)
	}
	return string(value), nil
}

// Delete removes the stored PIN entry. A missing entry is not an error.
func (g *Gate) Delete(ctx context.Context) error {
	err := g.store.DeleteItem(ctx, pinStorageKey)
	if err != nil && !errors.Is(err, storage.ErrItemNotFound) {
		return fmt.Errorf("failed to delete pin: %w", err)
	}
	return nil
}
