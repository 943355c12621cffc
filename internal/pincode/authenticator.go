// Package pincode implements the PIN authentication orchestrator: it
// validates PIN format, drives retrieval/verification/update/removal and
// bridges the suspend-until-UI-responds flow for manual PIN entry.
package pincode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ettawallet/pinauth/internal/biometry"
	"github.com/ettawallet/pinauth/internal/cache"
	"github.com/ettawallet/pinauth/internal/crypto"
	"github.com/ettawallet/pinauth/internal/models"
	"github.com/ettawallet/pinauth/internal/storage"
	"github.com/ettawallet/pinauth/internal/validation"
)

// DefaultAccount - имя аккаунта кеша, используемое по умолчанию
const DefaultAccount = "etta"

// Authenticator координирует все операции с PIN-кодом.
// Внешние вызывающие (экраны, app-state store) работают только с ним.
type Authenticator struct {
	hasher *crypto.Hasher
	cache  *cache.SecretCache
	gate   *biometry.Gate
	state  storage.StateStorage
	nav    Navigator
	logger *slog.Logger
}

// New creates a new Authenticator
func New(
	hasher *crypto.Hasher,
	secretCache *cache.SecretCache,
	gate *biometry.Gate,
	state storage.StateStorage,
	nav Navigator,
	logger *slog.Logger,
) *Authenticator {
	return &Authenticator{
		hasher: hasher,
		cache:  secretCache,
		gate:   gate,
		state:  state,
		nav:    nav,
		logger: logger,
	}
}

// PinType returns the configured pin type, PinTypeUnset if none was saved
func (a *Authenticator) PinType(ctx context.Context) (models.PinType, error) {
	pinType, err := a.state.GetPinType(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrPinTypeNotFound) {
			return models.PinTypeUnset, nil
		}
		return "", err
	}
	return pinType, nil
}

// pinType - lenient вариант для путей, где биометрия лишь удобство:
// при сбое чтения деградируем до ручного ввода
func (a *Authenticator) pinType(ctx context.Context) models.PinType {
	pinType, err := a.PinType(ctx)
	if err != nil {
		a.logger.Warn("failed to read pin type, assuming manual entry", "error", err)
		return models.PinTypeCustom
	}
	return pinType
}

// GetPincode returns the verified PIN: a fresh cached PIN short-circuits
// everything; otherwise, when PinType is Device, biometric retrieval is
// attempted; manual entry is always the fallback of last resort.
// Non-cancel biometric failures are logged, never fatal.
func (a *Authenticator) GetPincode(ctx context.Context, withVerification bool) (string, error) {
	if pin := a.cache.Pin(ctx, DefaultAccount); pin != "" {
		return pin, nil
	}

	if a.pinType(ctx) == models.PinTypeDevice {
		pin, err := a.gate.Retrieve(ctx)
		if err == nil {
			if err := a.cache.Set(ctx, DefaultAccount, pin); err != nil {
				a.logger.Error("failed to cache pin", "error", err)
				return "", err
			}
			return pin, nil
		}
		// Биометрия - только удобство, не единственный рубеж:
		// любой сбой ведет к ручному вводу
		if !errors.Is(err, biometry.ErrCancelled) {
			a.logger.Warn("biometric pin retrieval failed", "error", err)
		}
	}

	return a.RequestPincodeInput(ctx, withVerification, true, DefaultAccount)
}

// RequestPincodeInput issues a request to the external PIN-entry surface
// and suspends until the surface resolves or cancels it. On success the
// PIN is validated and written into the cache before being returned.
// Cancellation is reported as ErrUserCancelled.
func (a *Authenticator) RequestPincodeInput(ctx context.Context, withVerification, shouldNavigateBack bool, account string) (string, error) {
	if account == "" {
		account = DefaultAccount
	}

	req := newEntryRequest(withVerification, shouldNavigateBack, account)
	a.logger.Debug("requesting pin entry", "request_id", req.ID, "account", account)
	a.nav.RequestPinEntry(req)

	select {
	case res := <-req.done:
		if res.cancelled {
			return "", ErrUserCancelled
		}
		if err := validation.ValidatePin(res.pin); err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidPin, err)
		}
		if err := a.cache.Set(ctx, account, res.pin); err != nil {
			a.logger.Error("failed to cache pin", "error", err)
			return "", err
		}
		return res.pin, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// SetPincodeWithBiometry obtains the current PIN (cache or manual entry),
// stores it behind the biometric gate and marks PinType as Device
func (a *Authenticator) SetPincodeWithBiometry(ctx context.Context) error {
	pin := a.cache.Pin(ctx, DefaultAccount)
	if pin == "" {
		var err error
		pin, err = a.RequestPincodeInput(ctx, true, false, DefaultAccount)
		if err != nil {
			return err
		}
	}

	if err := a.gate.Store(ctx, pin); err != nil {
		return err
	}

	if err := a.state.SavePinType(ctx, models.PinTypeDevice); err != nil {
		return fmt.Errorf("failed to save pin type: %w", err)
	}

	return nil
}

// CheckPin verifies pin against the cached hash for account. Returns false
// when no fresh cache entry exists: "no cached secret" means "cannot
// verify", never "verification passed".
func (a *Authenticator) CheckPin(ctx context.Context, pin, account string) bool {
	if account == "" {
		account = DefaultAccount
	}

	// Невалидный PIN не хешируется и не проверяется
	if err := validation.ValidatePin(pin); err != nil {
		return false
	}

	cached := a.cache.Get(ctx, account)
	if cached == "" {
		return false
	}

	hash, err := a.hasher.Hash(ctx, pin)
	if err != nil {
		a.logger.Error("failed to hash pin", "error", err)
		return false
	}

	return crypto.VerifyHash(hash, cached)
}

// UpdatePin replaces the current PIN. Best-effort: returns false and logs
// the cause on any failure. When PinType is Device the biometric re-store
// happens first, so a failed change never leaves the gate entry stale
// while the cache already holds the new PIN.
func (a *Authenticator) UpdatePin(ctx context.Context, newPin string) bool {
	if err := validation.ValidatePin(newPin); err != nil {
		a.logger.Warn("rejecting invalid new pin", "error", err)
		return false
	}

	if a.pinType(ctx) == models.PinTypeDevice {
		if err := a.gate.Store(ctx, newPin); err != nil {
			a.logger.Error("failed to re-store pin behind biometry", "error", err)
			return false
		}
	}

	if err := a.cache.ClearAll(ctx); err != nil {
		a.logger.Error("failed to clear secret cache", "error", err)
		return false
	}

	if err := a.cache.Set(ctx, DefaultAccount, newPin); err != nil {
		a.logger.Error("failed to cache new pin", "error", err)
		return false
	}

	return true
}

// RemoveStoredPin deletes the biometric-store entry, wipes the cache and
// resets PinType to Unset
func (a *Authenticator) RemoveStoredPin(ctx context.Context) error {
	if err := a.gate.Delete(ctx); err != nil {
		return err
	}

	if err := a.cache.ClearAll(ctx); err != nil {
		return err
	}

	if err := a.state.SavePinType(ctx, models.PinTypeUnset); err != nil {
		return fmt.Errorf("failed to save pin type: %w", err)
	}

	return nil
}

// ClearCachedSecrets wipes every cached secret. Used on logout.
func (a *Authenticator) ClearCachedSecrets(ctx context.Context) error {
	return a.cache.ClearAll(ctx)
}
