package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/logging"
	"github.com/recipefinder/backend/internal/metrics"
)

// Storage keys for the persisted session
const (
	FavoritesKey = "recipeFavorites"
	HistoryKey   = "searchHistory"
)

// DefaultHistoryCapacity is the number of recent searches kept
const DefaultHistoryCapacity = 8

// RecordSearch returns history with query moved (or added) to the front,
// without duplicates and truncated to capacity. history is not modified.
func RecordSearch(history []string, query string, capacity int) []string {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	out := make([]string, 0, min(len(history)+1, capacity))
	out = append(out, query)
	for _, h := range history {
		if len(out) == capacity {
			break
		}
		if h != query {
			out = append(out, h)
		}
	}
	return out
}

// ToggleFavorite removes the favorite with recipe's id if present, otherwise
// adds recipe. favorites is not modified.
func ToggleFavorite(favorites []domain.Recipe, recipe domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, 0, len(favorites)+1)
	removed := false
	for _, f := range favorites {
		if f.ID == recipe.ID {
			removed = true
			continue
		}
		out = append(out, f)
	}
	if !removed {
		out = append(out, recipe)
	}
	return out
}

// SessionStore holds search history and favorites and persists every change.
// Persistence failures are logged and counted, never returned.
type SessionStore struct {
	store    domain.KeyValueStore
	capacity int

	mu        sync.RWMutex
	history   []string
	favorites []domain.Recipe
}

// NewSessionStore creates an empty session; call Load to restore saved state
func NewSessionStore(store domain.KeyValueStore, capacity int) *SessionStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &SessionStore{
		store:     store,
		capacity:  capacity,
		history:   []string{},
		favorites: []domain.Recipe{},
	}
}

// Load restores history and favorites. Absent or corrupt data leaves the
// corresponding structure empty.
func (s *SessionStore) Load(ctx context.Context) {
	history := loadJSON[[]string](ctx, s, HistoryKey)
	favorites := loadJSON[[]domain.Recipe](ctx, s, FavoritesKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = []string{}
	for _, h := range history {
		if h = strings.TrimSpace(h); h != "" && !slices.Contains(s.history, h) && len(s.history) < s.capacity {
			s.history = append(s.history, h)
		}
	}

	s.favorites = []domain.Recipe{}
	for _, f := range favorites {
		if f.ID != "" && !s.isFavorite(f.ID) {
			s.favorites = append(s.favorites, f)
		}
	}

	logging.Info().
		Int("history", len(s.history)).
		Int("favorites", len(s.favorites)).
		Msg("[SESSION] Restored session state")
}

// loadJSON decodes the value under key, or returns the zero T when the key
// is absent, unreadable or corrupt
func loadJSON[T any](ctx context.Context, s *SessionStore, key string) T {
	var zero T

	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return zero
	}
	if err != nil {
		s.persistenceFailed("load", key, err)
		return zero
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.persistenceFailed("load", key, fmt.Errorf("decode: %w", err))
		return zero
	}
	return v
}

// RecordSearch adds the trimmed query to the front of history and persists it.
// Blank queries are ignored.
func (s *SessionStore) RecordSearch(ctx context.Context, query string) []string {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if query != "" {
		s.history = RecordSearch(s.history, query, s.capacity)
		s.save(ctx, HistoryKey, s.history)
	}
	return slices.Clone(s.history)
}

// ClearHistory empties history and removes the stored key
func (s *SessionStore) ClearHistory(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = []string{}
	if err := s.store.Delete(ctx, HistoryKey); err != nil {
		s.persistenceFailed("delete", HistoryKey, err)
	}
}

// ToggleFavorite adds or removes recipe by id and persists the change.
// It reports whether the recipe is a favorite afterwards.
func (s *SessionStore) ToggleFavorite(ctx context.Context, recipe domain.Recipe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites = ToggleFavorite(s.favorites, recipe)
	s.save(ctx, FavoritesKey, s.favorites)
	return s.isFavorite(recipe.ID)
}

// IsFavorite reports whether id is in the favorites set
func (s *SessionStore) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isFavorite(id)
}

func (s *SessionStore) isFavorite(id string) bool {
	for _, f := range s.favorites {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Favorite returns the stored favorite with id, if any
func (s *SessionStore) Favorite(id string) (domain.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.favorites {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Recipe{}, false
}

// Favorites returns a copy of the favorites
func (s *SessionStore) Favorites() []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites)
}

// History returns a copy of the history, newest first
func (s *SessionStore) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

// save serializes v under key. Must be called with the write lock held so
// writes reach the store in mutation order.
func (s *SessionStore) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.persistenceFailed("save", key, fmt.Errorf("encode: %w", err))
		return
	}
	if err := s.store.Set(ctx, key, string(raw)); err != nil {
		s.persistenceFailed("save", key, err)
	}
}

func (s *SessionStore) persistenceFailed(op, key string, err error) {
	metrics.PersistenceErrors.WithLabelValues(op, key).Inc()
	logging.Warn().
		Err(fmt.Errorf("%w: %v", domain.ErrPersistence, err)).
		Str("operation", op).
		Str("key", key).
		Msg("[SESSION] Persistence failed, continuing without it")
}
