package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/recipefinder/backend/internal/domain"
	"github.com/recipefinder/backend/internal/logging"
)

// FileStore keeps every key in a single JSON object on disk. Each Set rewrites
// the file through a temp file and rename, so a crash leaves either the old or
// the new contents.
type FileStore struct {
	path  string
	data  map[string]string
	mutex sync.RWMutex
}

// NewFileStore opens the file at path, creating its directory if needed.
// A missing file starts empty. An unreadable or corrupt file is logged and
// also starts empty; it is replaced on the next Set.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileStore{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		logging.Warn().Err(err).Str("path", path).Msg("[KVSTORE] Unreadable storage file, starting empty")
		return s, nil
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("[KVSTORE] Corrupt storage file, starting empty")
		s.data = make(map[string]string)
	}
	return s, nil
}

// Get retrieves a value
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

// Set stores a value and flushes the whole file
func (s *FileStore) Set(ctx context.Context, key string, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev, had := s.data[key]
	s.data[key] = value
	if err := s.flush(); err != nil {
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

// Delete removes a value and flushes the whole file
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prev, had := s.data[key]
	if !had {
		return nil
	}
	delete(s.data, key)
	if err := s.flush(); err != nil {
		s.data[key] = prev
		return err
	}
	return nil
}

// Close is a no-op; every write is already on disk
func (s *FileStore) Close() error {
	return nil
}

// flush must be called with the write lock held
func (s *FileStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode storage file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}
