// Package logging provides structured logging for the papan server and tools.
//
// This package wraps a global zap logger with convenience functions for the
// logging patterns used throughout the server. CLI commands stay silent unless
// PAPAN_LOG_LEVEL is set; the server initializes the logger from its
// configuration file and flags.
//
// # Log Levels
//
//   - Debug: request traces, websocket frames, watcher events
//   - Info: startup, display connections, settings replacements
//   - Warn: discarded persisted data, swallowed storage failures
//   - Error: listener failures, unexpected handler errors
//
// # Structured Logging
//
//	logging.Info("Display connected",
//	    zap.String("display_id", id),
//	    zap.String("remote_addr", "192.168.1.40:51234"),
//	)
//
// # File Output
//
// When Options.File is set a JSON core is teed next to the console core and
// written through lumberjack, which rotates and compresses old files:
//
//	logging.InitializeWithOptions(logging.Options{
//	    Level: "info",
//	    File:  "/var/log/papan/papan.log",
//	})
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
