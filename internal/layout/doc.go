// Package layout composes the board page from the configuration record.
//
// Compose is a pure function of settings.Config. The server renders the
// resulting Page as HTML and papan-cfg renders it in the terminal; neither
// reads the record directly.
package layout
