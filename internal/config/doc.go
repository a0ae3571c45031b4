// Package config provides the papan-server configuration file.
//
// The file is YAML and lives in the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/papan/config.yaml or $HOME/.config/papan/config.yaml
//   - macOS: $HOME/.config/papan/config.yaml
//   - Windows: %LOCALAPPDATA%\papan\config.yaml
//
// This file configures the server process only (listener, storage driver,
// logging, mDNS, limits). The board's own settings record and announcement
// list are kept by the storage package and edited through the API.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Server.Port = 9000
//	if err := cfg.Save(""); err != nil {
//	    log.Fatal(err)
//	}
//
// Missing keys keep their defaults; a missing file yields Default().
// Saves are atomic (temporary file + rename).
package config
