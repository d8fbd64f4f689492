// Package kvstore provides the durable key-value backends that hold the
// session's favorites and search history.
package kvstore

import (
	"context"
	"fmt"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/logging"
	"github.com/recipefinder/backend/internal/metrics"
)

// Backend names accepted by Open.
const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeBadger = "badger"
	TypeRedis  = "redis"
	TypeSQLite = "sqlite"
)

// Store is a domain.KeyValueStore that owns resources which must be released.
type Store interface {
	domain.KeyValueStore
	Close() error
}

// Options selects and configures a backend
type Options struct {
	Type     string
	Path     string
	RedisURL string
}

// Open creates the backend named by opts.Type
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)

	switch opts.Type {
	case TypeMemory, "":
		return NewMemoryStore(), nil
	case TypeFile:
		store, err = NewFileStore(opts.Path)
	case TypeBadger:
		store, err = NewBadgerStore(opts.Path)
	case TypeRedis:
		store, err = NewRedisStore(ctx, opts.RedisURL)
	case TypeSQLite:
		store, err = NewSQLStore(opts.Path)
	default:
		return nil, fmt.Errorf("unknown storage type %q", opts.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Type, err)
	}
	return store, nil
}

// OpenWithFallback opens the backend named by opts.Type. If it cannot be
// opened the failure is logged and counted, and an in-memory store is
// returned instead so favorites and history start empty.
func OpenWithFallback(ctx context.Context, opts Options) Store {
	store, err := Open(ctx, opts)
	if err == nil {
		return store
	}

	metrics.PersistenceErrors.WithLabelValues("open", opts.Type).Inc()
	logging.Warn().
		Err(fmt.Errorf("%w: %v", domain.ErrPersistence, err)).
		Str("type", opts.Type).
		Msg("[KVSTORE] Storage unavailable, falling back to memory")
	return NewMemoryStore()
}
