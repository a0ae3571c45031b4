package settings

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/papan/internal/logging"
	"github.com/muurk/papan/internal/storage"
)

// Store owns the live configuration record.
type Store struct {
	backend storage.Backend

	// writeMu orders replacements: install, persist and notify of one
	// replacement complete before the next begins.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current Config
	version uint64

	subMu  sync.Mutex
	subs   map[int]func(Config)
	nextID int
}

// Load reads the persisted record. A missing, malformed or incomplete value
// yields Default() as a whole; partial records are never merged.
func Load(backend storage.Backend) *Store {
	s := &Store{
		backend: backend,
		current: Default(),
		version: 1,
		subs:    make(map[int]func(Config)),
	}

	data, err := backend.Get(storage.KeySettings)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logging.Debug("No persisted settings, using defaults")
	case err != nil:
		logging.LogStorage("get", storage.KeySettings, err)
	default:
		if cfg, ok := Decode(data); ok {
			s.current = cfg
		} else {
			logging.Warn("Discarding malformed persisted settings",
				zap.Strings("missing", Missing(data)))
		}
	}
	return s
}

// Current returns a private copy of the live record.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Version increments on every replacement.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Replace installs cfg as the live record, persists it and notifies
// subscribers. Persistence failures are logged, never returned. Subscribers
// must not replace the record from their callback.
func (s *Store) Replace(cfg Config) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.replaceLocked(cfg, "replace")
}

// Update applies fn to a copy of the live record and replaces the record
// with the result. No other replacement lands between the read and the
// write.
func (s *Store) Update(fn func(cfg *Config)) Config {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cfg := s.Current()
	fn(&cfg)
	s.replaceLocked(cfg, "update")
	return cfg.Clone()
}

func (s *Store) replaceLocked(cfg Config, source string) {
	version := s.install(cfg)
	s.persist(cfg)
	logging.LogReplacement("settings", version, source)
	s.notify(cfg)
}

// Adopt installs cfg without persisting it. Used when the stored value was
// rewritten by another process.
func (s *Store) Adopt(cfg Config) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.adoptLocked(cfg)
}

func (s *Store) adoptLocked(cfg Config) {
	version := s.install(cfg)
	logging.LogReplacement("settings", version, "adopt")
	s.notify(cfg)
}

// Reload re-reads the backend and adopts the stored record when it is
// complete. It reports whether anything was adopted.
func (s *Store) Reload() bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := s.backend.Get(storage.KeySettings)
	if err != nil {
		logging.LogStorage("get", storage.KeySettings, err)
		return false
	}
	cfg, ok := Decode(data)
	if !ok {
		logging.Warn("Ignoring malformed settings rewrite",
			zap.Strings("missing", Missing(data)))
		return false
	}
	if cfg.Equal(s.Current()) {
		return false
	}
	s.adoptLocked(cfg)
	return true
}

func (s *Store) install(cfg Config) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cfg.Clone()
	s.version++
	return s.version
}

func (s *Store) persist(cfg Config) {
	data, err := json.Marshal(cfg.normalized())
	if err != nil {
		logging.LogStorage("encode", storage.KeySettings, err)
		return
	}
	if err := s.backend.Put(storage.KeySettings, data); err != nil {
		logging.LogStorage("put", storage.KeySettings, err)
	}
}

// Subscribe registers fn to receive every new record. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(Config)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(cfg Config) {
	s.subMu.Lock()
	fns := make([]func(Config), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(cfg.Clone())
	}
}
