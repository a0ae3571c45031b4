// Package settings holds the board's configuration record and the store that
// owns it.
//
// The record is replaced wholesale, never patched: the Settings Panel edits a
// Clone and hands the finished draft to Store.Replace, which persists it under
// storage.KeySettings and notifies subscribers (the display hub, the terminal
// preview). A persisted value that is missing a field is discarded in favour
// of Default().
//
// Widgets never read the record directly; they receive one of its views
// (Header, Background, Stream, Board, RunningText, Footer).
package settings
