// Package storage persists the board's two values, the settings record
// (KeySettings) and the announcement list (KeyAnnouncements), as opaque
// JSON documents.
//
// Three backends implement Backend:
//   - FileBackend writes <data dir>/<key>.json atomically and can Watch the
//     directory for edits made by other processes
//   - SQLiteBackend keeps a kv table in a WAL-mode database
//   - MemoryBackend keeps nothing across restarts (tests, kiosks)
//
// Open picks one from the server configuration.
package storage
