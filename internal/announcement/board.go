package announcement

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/papan/internal/logging"
	"github.com/muurk/papan/internal/storage"
)

// ErrNotFound is returned when no announcement has the requested ID.
var ErrNotFound = errors.New("announcement not found")

// Board is the ordered announcement sequence bound to a storage backend.
type Board struct {
	backend storage.Backend

	mu      sync.RWMutex
	items   []Announcement
	version uint64

	subMu  sync.Mutex
	subs   map[int]func([]Announcement)
	nextID int
}

// Load reads the stored sequence. A missing or malformed value yields the
// default seed.
func Load(backend storage.Backend) *Board {
	b := &Board{
		backend: backend,
		items:   Defaults(),
		version: 1,
		subs:    make(map[int]func([]Announcement)),
	}

	data, err := backend.Get(storage.KeyAnnouncements)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logging.Debug("No persisted announcements, using defaults")
	case err != nil:
		logging.LogStorage("get", storage.KeyAnnouncements, err)
	default:
		if items, ok := decode(data); ok {
			b.items = items
		} else {
			logging.Warn("Discarding malformed persisted announcements")
		}
	}
	return b
}

func decode(data []byte) ([]Announcement, bool) {
	var items []Announcement
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// List returns a copy of the sequence in display order.
func (b *Board) List() []Announcement {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Announcement(nil), b.items...)
}

// Version increments on every mutation.
func (b *Board) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Get returns the announcement with the given ID.
func (b *Board) Get(id int) (Announcement, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, a := range b.items {
		if a.ID == id {
			return a, nil
		}
	}
	return Announcement{}, ErrNotFound
}

// Create appends a with a fresh ID (one more than the current maximum, 1
// when empty) and returns the stored value.
func (b *Board) Create(a Announcement) Announcement {
	b.mu.Lock()
	maxID := 0
	for _, existing := range b.items {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	a.ID = maxID + 1
	b.items = append(b.items, a)
	snapshot := b.commitLocked()
	b.mu.Unlock()

	b.publish(snapshot, "create")
	return a
}

// Update replaces the announcement with a's ID in place.
func (b *Board) Update(a Announcement) error {
	b.mu.Lock()
	idx := b.indexLocked(a.ID)
	if idx < 0 {
		b.mu.Unlock()
		return ErrNotFound
	}
	b.items[idx] = a
	snapshot := b.commitLocked()
	b.mu.Unlock()

	b.publish(snapshot, "update")
	return nil
}

// Delete removes exactly the announcement with the given ID.
func (b *Board) Delete(id int) error {
	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return ErrNotFound
	}
	b.items = append(b.items[:idx:idx], b.items[idx+1:]...)
	snapshot := b.commitLocked()
	b.mu.Unlock()

	b.publish(snapshot, "delete")
	return nil
}

// Adopt installs items without persisting them. Used when the stored value
// was rewritten by another process.
func (b *Board) Adopt(items []Announcement) {
	b.mu.Lock()
	b.items = append([]Announcement(nil), items...)
	b.version++
	snapshot := append([]Announcement(nil), b.items...)
	b.mu.Unlock()

	logging.LogReplacement("announcements", b.Version(), "adopt")
	b.notify(snapshot)
}

// Reload re-reads the backend and adopts a well-formed sequence.
func (b *Board) Reload() bool {
	data, err := b.backend.Get(storage.KeyAnnouncements)
	if err != nil {
		logging.LogStorage("get", storage.KeyAnnouncements, err)
		return false
	}
	items, ok := decode(data)
	if !ok {
		logging.Warn("Ignoring malformed announcements rewrite")
		return false
	}
	b.Adopt(items)
	return true
}

func (b *Board) indexLocked(id int) int {
	for i, a := range b.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// commitLocked bumps the version and persists the sequence while the write
// lock is held, so stored values follow mutation order.
func (b *Board) commitLocked() []Announcement {
	b.version++
	snapshot := append([]Announcement(nil), b.items...)

	data, err := json.Marshal(snapshot)
	if err != nil {
		logging.LogStorage("encode", storage.KeyAnnouncements, err)
	} else if err := b.backend.Put(storage.KeyAnnouncements, data); err != nil {
		logging.LogStorage("put", storage.KeyAnnouncements, err)
	}
	return snapshot
}

func (b *Board) publish(items []Announcement, op string) {
	logging.Debug("Announcements changed", zap.String("op", op), zap.Int("count", len(items)))
	b.notify(items)
}

// Subscribe registers fn to receive the sequence after every mutation.
func (b *Board) Subscribe(fn func([]Announcement)) (cancel func()) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Board) notify(items []Announcement) {
	b.subMu.Lock()
	fns := make([]func([]Announcement), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.subMu.Unlock()

	for _, fn := range fns {
		fn(append([]Announcement(nil), items...))
	}
}
