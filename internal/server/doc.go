// Package server serves the information board over HTTP.
//
// Browser displays load the board page from "/" and keep a WebSocket open on
// /api/v1/ws. Whenever the settings record, the announcement list or the
// stream selection changes, every display receives a small JSON message and
// reloads when the version differs from the one it rendered:
//
//	{"type":"settings","version":7}
//
// On connect each display is greeted with a "hello" message carrying its
// display ID and the current version of the settings, the announcements and
// the stream, so a display that missed any change while disconnected
// catches up immediately:
//
//	{"type":"hello","version":7,"versions":{"settings":7,"announcements":3,"stream":1},"displayId":"..."}
//
// # API
//
//	GET    /api/v1/settings                 current record
//	PUT    /api/v1/settings                 replace wholesale (400 if incomplete)
//	POST   /api/v1/settings/reset           restore defaults
//	POST   /api/v1/settings/images/:target  multipart "file" for logo or background
//	GET    /api/v1/announcements            list
//	POST   /api/v1/announcements            create (403 when editing is disabled)
//	PUT    /api/v1/announcements/:id        update
//	DELETE /api/v1/announcements/:id        delete
//	GET    /api/v1/stream                   effective stream
//	PUT    /api/v1/stream                   session override {"url": "..."}
//	DELETE /api/v1/stream                   back to the configured default
//	GET    /healthz, /metrics
//
// Mutating routes are rate limited per client IP and bounded in body size.
//
// # Usage Example
//
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until SIGINT/SIGTERM or a listener error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
package server
