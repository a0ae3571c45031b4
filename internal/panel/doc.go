// Package panel is the Settings Panel: a draft copy of the configuration
// record edited tab by tab and saved wholesale.
//
// The panel is either closed or open on one Tab. While open, Set parses
// string form input through the Fields catalogue; Save sanitises the
// running text lines and hands the draft to a Committer (the local store in
// papan-server, the HTTP client in papan-cfg). Cancel discards the draft and
// leaves the live record untouched.
//
// The terminal front end lives in the tui subpackage.
package panel
