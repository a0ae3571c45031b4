// Package tui implements papan-cfg's full-screen terminal configurator.
//
// Built on Bubble Tea, it connects to a papan server over its HTTP API and
// shows a live terminal rendition of the board while the settings panel
// and the agenda are edited.
//
// # Screens
//
//   - Discovery: browse mDNS for papan servers or type an address
//   - Preview: header, stream pane, scrolling agenda and running text
//   - Settings panel: tabbed editor over a draft of the record
//   - Agenda: add, edit and delete announcements
//
// Every screen is wrapped by RenderApplicationContainer with a header, the
// screen content and a context-sensitive help footer.
//
// # Live Preview
//
// The preview mounts the same clock, board scroll and marquee widgets the
// server page uses on a schedule.Group. Timer callbacks post a redraw
// message to the program; a pending flag coalesces them so a slow terminal
// never queues more than one frame. Widget positions are in pixels and are
// mapped to cells at 16px per row and 8px per character.
//
// The preview also joins the server's display channel. Any change pushed
// by another operator reloads the record, the agenda and the stream.
//
// # Key Bindings
//
//   - Discovery: ↑/↓ navigate, enter open, r rescan, m enter address, q quit
//   - Preview: s settings, a agenda, r refresh, d boards, q quit
//   - Settings panel: tab/shift+tab switch tabs, enter edit, x remove image,
//     ctrl+s save, esc cancel
//   - Agenda: n new, e edit, d delete, ctrl+s save form, esc back
//
// # Usage Example
//
//	c := client.NewWithURL("http://192.168.1.20:8080")
//	if err := tui.Run(ctx, c); err != nil {
//	    log.Fatal(err)
//	}
package tui
