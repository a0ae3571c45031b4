// Papan-server serves the signage board to browser displays.
//
// It renders the board page, keeps the settings record and the agenda in the
// configured storage backend, and pushes every change to the connected
// displays over WebSocket. The server advertises itself over mDNS so
// papan-cfg can find it on the local network.
//
// Usage:
//
//	papan-server serve [flags]
//
// See 'papan-server serve --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/papan/internal/config"
	"github.com/muurk/papan/internal/logging"
	"github.com/muurk/papan/internal/server"
	"github.com/muurk/papan/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "papan-server",
	Short: "Papan Signage Board Server",
	Long: `A standalone server for the papan digital signage board.

Displays open the board page in a browser and stay connected to receive
settings, agenda and stream changes as they happen.

Note: To edit the board from a terminal, use the separate 'papan-cfg' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	configPath string
	host       string
	port       int
	dataDir    string
	driver     string
	logLevel   string
	logFile    string
	noMDNS     bool
	noWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the board server",
	Long: `Start the papan server and accept display connections.

Settings are read from the configuration file (see 'papan-server init-config').
Flags override the values in the file for this run only.

With the file storage driver the data directory is watched, so a settings or
agenda file edited by hand is picked up and pushed to the displays.`,
	Example: `  # Start with the default configuration
  papan-server serve

  # Listen on another port with verbose logging
  papan-server serve --port 9000 --log-level debug

  # Keep state in SQLite under a custom directory
  papan-server serve --storage sqlite --data-dir /var/lib/papan

  # Run without persistence or mDNS, e.g. for a demo
  papan-server serve --storage memory --no-mdns`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: OS config directory)")
	serveCmd.Flags().StringVar(&host, "host", "", "Listen host (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", 0, "Listen port (default from config, 8080)")
	serveCmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding the board state")
	serveCmd.Flags().StringVar(&driver, "storage", "", "Storage driver (file, sqlite, memory)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file, rotated")
	serveCmd.Flags().BoolVar(&noMDNS, "no-mdns", false, "Do not advertise the server over mDNS")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload files edited outside the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.InitializeWithOptions(logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	srv, err := server.New(cfg)
	if err != nil {
		logging.Error("Failed to create server", zap.Error(err))
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// applyFlags copies the flags the user set over the loaded file values.
func applyFlags(cmd *cobra.Command, cfg *config.ServerConfig) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = host
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir = dataDir
	}
	if flags.Changed("storage") {
		cfg.Storage.Driver = driver
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if noMDNS {
		cfg.Discovery.Enabled = false
	}
	if noWatch {
		cfg.Storage.Watch = false
	}
}

// Init-config command
var forceInit bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with every section filled with its default.

The file is written to the OS config directory unless --config is given.
An existing file is left alone unless --force is set.`,
	Example: `  # Create ~/.config/papan/config.yaml
  papan-server init-config

  # Overwrite a file at a custom path
  papan-server init-config --config ./papan.yaml --force`,
	RunE: runInitConfig,
}

func init() {
	initConfigCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: OS config directory)")
	initConfigCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote default configuration to %s\n", path)
	return nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("papan-server %s\n", version.Full())
	},
}
