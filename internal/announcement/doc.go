// Package announcement manages the agenda items shown on the board.
//
// Board keeps the ordered sequence under storage.KeyAnnouncements. IDs are
// assigned as one more than the current maximum; every mutation persists the
// full sequence and notifies subscribers. Editor models the inline add/edit
// form of a single board view and commits through a Mutator, either a Board
// in-process or the HTTP client from papan-cfg.
package announcement
