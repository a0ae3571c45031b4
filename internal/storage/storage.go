package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/muurk/papan/internal/config"
)

// Storage keys for the two persisted values.
const (
	KeySettings      = "infoboard-settings"
	KeyAnnouncements = "infoboard-announcements"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend persists opaque values by key.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Close() error
}

// Open returns the backend selected by the server configuration.
func Open(cfg *config.ServerConfig) (Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return NewMemoryBackend(), nil
	}

	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}

	switch cfg.Storage.Driver {
	case config.DriverFile:
		return NewFileBackend(dir)
	case config.DriverSQLite:
		path := cfg.Storage.SQLiteFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return NewSQLiteBackend(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryBackend) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of data.
func (m *MemoryBackend) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), data...)
	return nil
}

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }
