package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/logging"
)

// badgerKeyPrefix namespaces session keys inside the database
const badgerKeyPrefix = "session:"

// BadgerStore is a BadgerDB-backed key-value store
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a BadgerDB at path
func NewBadgerStore(path string) (*BadgerStore, error) {
	if path == "" {
		return nil, errors.New("badger store path is required")
	}

	opts := badger.DefaultOptions(path).WithLogger(newBadgerLogger(logging.Logger()))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreFromDB wraps an already opened database
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Get retrieves a value
func (s *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return domain.ErrKeyNotFound
		}
		if err != nil {
			return fmt.Errorf("get key: %w", err)
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores a value
func (s *BadgerStore) Set(ctx context.Context, key string, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(badgerKeyPrefix+key), []byte(value)); err != nil {
			return fmt.Errorf("set key: %w", err)
		}
		return nil
	})
}

// Delete removes a value
func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(badgerKeyPrefix + key))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete key: %w", err)
		}
		return nil
	})
}

// Close closes the underlying database
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// badgerLogger routes BadgerDB's own messages into the service logger.
// Badger is chatty at info level, so info and debug both log at debug.
type badgerLogger struct {
	log zerolog.Logger
}

func newBadgerLogger(l zerolog.Logger) badgerLogger {
	return badgerLogger{log: l.With().Str("component", "badger").Logger()}
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msgf(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Msgf(strings.TrimSuffix(format, "\n"), args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(strings.TrimSuffix(format, "\n"), args...)
}
