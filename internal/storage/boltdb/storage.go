package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketSecure = []byte("secure")
	bucketState  = []byte("state")
)

// Prompter подтверждает доступ к значению, защищенному AccessPolicy.
// Возвращает false, если пользователь отклонил запрос.
// На мобильных платформах эту роль выполняет нативный биометрический prompt;
// здесь hook нужен для desktop-сборок и тестов.
type Prompter func(ctx context.Context, key string) (bool, error)

// Storage represents BoltDB storage implementation of both the secure
// credential store and the persistent state store
type Storage struct {
	db       *bbolt.DB
	prompter Prompter
}

// Option configures optional Storage behavior
type Option func(*Storage)

// WithPrompter устанавливает hook подтверждения доступа к policy-protected
// значениям. Без него такие значения читаются без подтверждения.
func WithPrompter(p Prompter) Option {
	return func(s *Storage) {
		s.prompter = p
	}
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}
	for _, opt := range opts {
		opt(storage)
	}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		// Создаем bucket для secure credential store
		if _, err := tx.CreateBucketIfNotExists(bucketSecure); err != nil {
			return fmt.Errorf("failed to create secure bucket: %w", err)
		}

		// Создаем bucket для persistent state
		if _, err := tx.CreateBucketIfNotExists(bucketState); err != nil {
			return fmt.Errorf("failed to create state bucket: %w", err)
		}

		return nil
	})
}
