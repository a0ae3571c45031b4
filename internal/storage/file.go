package storage

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/muurk/papan/internal/logging"
)

const (
	fileExt = ".json"

	// Bursts of events for one key collapse into a single callback.
	watchDebounce = 150 * time.Millisecond
)

// FileBackend stores each key as <dir>/<key>.json.
type FileBackend struct {
	dir string

	mu sync.Mutex
	// Digest of the last value this backend wrote per key. Watch skips
	// events whose file still holds exactly that value.
	lastWrites map[string][sha256.Size]byte
}

// NewFileBackend creates the directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{
		dir:        dir,
		lastWrites: make(map[string][sha256.Size]byte),
	}, nil
}

// Dir returns the data directory.
func (f *FileBackend) Dir() string { return f.dir }

func (f *FileBackend) path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

// Get reads the value stored under key.
func (f *FileBackend) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put writes the value atomically (temporary file + rename).
func (f *FileBackend) Put(key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary file for %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	f.lastWrites[key] = sha256.Sum256(data)
	return nil
}

// Close is a no-op; files are not held open.
func (f *FileBackend) Close() error { return nil }

// changedOnDisk reports whether the file for key differs from the value this
// backend last wrote. A missing file is not a change worth reporting.
func (f *FileBackend) changedOnDisk(key string) bool {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	if err != nil {
		logging.Warn("Failed to read changed storage key",
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	own, ok := f.lastWrites[key]
	return !ok || own != sha256.Sum256(data)
}

// keyFor maps an event path back to a storage key.
func (f *FileBackend) keyFor(path string) (string, bool) {
	if filepath.Dir(path) != filepath.Clean(f.dir) {
		return "", false
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	return strings.TrimSuffix(base, fileExt), true
}

// Watch calls fn with the key of every value rewritten by another process
// until ctx is cancelled. Events that leave a file holding the value this
// backend last wrote are ignored, however soon they follow our own write.
func (f *FileBackend) Watch(ctx context.Context, fn func(key string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(f.dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", f.dir, err)
	}

	go func() {
		defer w.Close()

		pending := make(map[string]*time.Timer)
		defer func() {
			for _, t := range pending {
				t.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				key, ok := f.keyFor(ev.Name)
				if !ok {
					continue
				}
				if t, exists := pending[key]; exists {
					t.Stop()
				}
				pending[key] = time.AfterFunc(watchDebounce, func() {
					if ctx.Err() != nil || !f.changedOnDisk(key) {
						return
					}
					logging.Debug("Storage key changed on disk", zap.String("key", key))
					fn(key)
				})

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logging.Warn("Storage watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
