// Package cache implements the short-lived secret cache: a TTL-bounded map
// from account name to the peppered hash of the last verified PIN.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ettawallet/pinauth/internal/crypto"
	"github.com/ettawallet/pinauth/internal/models"
	"github.com/ettawallet/pinauth/internal/storage"
)

// DefaultTTL - максимальный возраст записи кеша
const DefaultTTL = 5 * time.Minute

// entry хранит сериализуемую часть записи плюс сырой PIN,
// который живет только в памяти процесса
type entry struct {
	models.CacheEntry
	pin string
}

// SecretCache is the TTL-based in-memory secret cache. Stale entries are
// evicted on read. Every mutation persists a snapshot (hashes and
// timestamps only) through StateStorage so verification survives a process
// restart within the TTL window; raw PINs never do.
type SecretCache struct {
	hasher  *crypto.Hasher
	state   storage.StateStorage
	logger  *slog.Logger
	now     func() time.Time
	entries map[string]*entry
	ttl     time.Duration
	mu      sync.Mutex
}

// Option configures optional SecretCache behavior
type Option func(*SecretCache)

// WithTTL переопределяет TTL записей (для тестов)
func WithTTL(ttl time.Duration) Option {
	return func(c *SecretCache) {
		c.ttl = ttl
	}
}

// WithClock переопределяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(c *SecretCache) {
		c.now = now
	}
}

// New creates a SecretCache and restores the persisted snapshot if one
// exists. Restored entries are subject to the same TTL rules.
func New(ctx context.Context, hasher *crypto.Hasher, state storage.StateStorage, logger *slog.Logger, opts ...Option) (*SecretCache, error) {
	c := &SecretCache{
		hasher:  hasher,
		state:   state,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Восстанавливаем snapshot предыдущего процесса
	saved, err := state.GetSecretCache(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrCacheNotFound) {
			return nil, fmt.Errorf("failed to restore cache snapshot: %w", err)
		}
	} else {
		for _, e := range saved {
			c.entries[e.Account] = &entry{CacheEntry: *e}
		}
	}

	return c, nil
}

// fresh сообщает, действительна ли запись в данный момент.
// Вызывается под mutex.
func (c *SecretCache) fresh(e *entry) bool {
	if e == nil || e.Secret == "" || e.Timestamp == 0 {
		return false
	}
	age := c.now().UnixMilli() - e.Timestamp
	return age < c.ttl.Milliseconds()
}

// evict сбрасывает запись в пустое состояние. Вызывается под mutex.
// Повторный evict той же записи - no-op.
func (c *SecretCache) evict(ctx context.Context, e *entry) {
	if e.Secret == "" && e.Timestamp == 0 && e.pin == "" {
		return
	}
	e.Secret = ""
	e.Timestamp = 0
	e.pin = ""

	// Протухшая запись - внутреннее состояние, наружу не отдается;
	// ошибку персистенции только логируем
	if err := c.persist(ctx); err != nil {
		c.logger.Warn("failed to persist cache eviction", "error", err)
	}
}

// persist сохраняет snapshot всех записей. Вызывается под mutex.
// Сырые PIN-коды в snapshot не попадают.
func (c *SecretCache) persist(ctx context.Context) error {
	snapshot := make([]*models.CacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		copied := e.CacheEntry
		snapshot = append(snapshot, &copied)
	}
	return c.state.SaveSecretCache(ctx, snapshot)
}

// Get returns the cached peppered hash for account, or "" if no fresh
// entry exists. A stale entry encountered here is evicted as a side
// effect, so repeated reads of an expired entry are idempotent.
func (c *SecretCache) Get(ctx context.Context, account string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[account]
	if !ok {
		return ""
	}
	if !c.fresh(e) {
		c.evict(ctx, e)
		return ""
	}
	return e.Secret
}

// Pin returns the cached raw PIN for account, or "" if no fresh entry
// exists or the entry was restored from a snapshot (raw PINs are not
// persisted)
func (c *SecretCache) Pin(ctx context.Context, account string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[account]
	if !ok {
		return ""
	}
	if !c.fresh(e) {
		c.evict(ctx, e)
		return ""
	}
	return e.pin
}

// Set hashes pin via the Hasher and caches it for account with the current
// timestamp, then persists the snapshot
func (c *SecretCache) Set(ctx context.Context, account, pin string) error {
	hash, err := c.hasher.Hash(ctx, pin)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[account] = &entry{
		CacheEntry: models.CacheEntry{
			Account:   account,
			Secret:    hash,
			Timestamp: c.now().UnixMilli(),
		},
		pin: pin,
	}

	if err := c.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist cache snapshot: %w", err)
	}

	return nil
}

// ClearAll resets every entry and persists the empty snapshot.
// Used on logout, PIN change and account removal.
func (c *SecretCache) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.Secret = ""
		e.Timestamp = 0
		e.pin = ""
	}

	if err := c.persist(ctx); err != nil {
		return fmt.Errorf("failed to persist cache snapshot: %w", err)
	}

	return nil
}
