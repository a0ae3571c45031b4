// Package ui renders papan-cfg's one-shot command output.
//
// Unlike the interactive configurator in package tui, these components
// print and return: a header naming the command and its parameters, the
// command's tables, and a closing result box.
//
//   - Header: command banner with ordered parameters
//   - Result: success, failure or warning box with troubleshooting tips
//   - Confirm: typed-phrase confirmation for destructive commands
//   - RenderSettings, RenderAnnouncements, RenderBoards: record tables
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Announcements", "papan-cfg announce list",
//	    ui.Param{Key: "Server", Value: c.BaseURL})
//	p.Println(ui.RenderAnnouncements(items))
//
// Logging is controlled by the PAPAN_LOG_LEVEL environment variable. When
// it is unset, zap output is silent so only the rendered output appears.
package ui
