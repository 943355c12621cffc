package pincode

import (
	"sync"

	"github.com/google/uuid"
)

//go:generate moq -out navigator_mock.go . Navigator

// Navigator is the external PIN-entry surface. RequestPinEntry must not
// block: it hands the request to the UI layer, which later resolves or
// cancels it exactly once.
type Navigator interface {
	RequestPinEntry(req *EntryRequest)
}

// entryResult - исход запроса ввода PIN
type entryResult struct {
	pin       string
	cancelled bool
}

// EntryRequest is a one-shot rendezvous between the authenticator and the
// PIN-entry surface. The authenticator parks on it until the surface calls
// Resolve or Cancel; whichever comes first wins, later calls are no-ops.
type EntryRequest struct {
	// ID идентифицирует запрос (для логов и навигации)
	ID uuid.UUID
	// Account - namespace ключ кеша, в который попадет введенный PIN
	Account string
	// WithVerification требует от UI проверить PIN перед возвратом
	WithVerification bool
	// ShouldNavigateBack требует от UI вернуться на предыдущий экран
	ShouldNavigateBack bool

	once sync.Once
	done chan entryResult
}

func newEntryRequest(withVerification, shouldNavigateBack bool, account string) *EntryRequest {
	return &EntryRequest{
		ID:                 uuid.New(),
		Account:            account,
		WithVerification:   withVerification,
		ShouldNavigateBack: shouldNavigateBack,
		done:               make(chan entryResult, 1),
	}
}

// Resolve completes the request with the entered PIN
func (r *EntryRequest) Resolve(pin string) {
	r.once.Do(func() {
		r.done <- entryResult{pin: pin}
	})
}

// Cancel completes the request with a cancellation
func (r *EntryRequest) Cancel() {
	r.once.Do(func() {
		r.done <- entryResult{cancelled: true}
	})
}
