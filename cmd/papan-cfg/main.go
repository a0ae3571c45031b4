// Papan-cfg is the operator utility for papan signage boards.
//
// It finds boards on the local network over mDNS, edits the settings record
// and the agenda, and overrides the stream the displays are playing. Run
// without arguments in a terminal it opens the interactive configurator
// with a live preview of the board.
//
// Usage:
//
//	papan-cfg [command] [flags]
//
// See 'papan-cfg --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/papan/internal/logging"
	"github.com/muurk/papan/internal/tui"
	"github.com/muurk/papan/internal/ui"
	"github.com/muurk/papan/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Commands that already printed a failure box only set the exit code
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "papan-cfg",
	Short: "Papan Board Configuration Utility",
	Long: `A standalone utility for configuring papan signage boards.

Provides board discovery, an interactive configurator with a live preview,
and direct commands for settings, announcements and the stream.

If no command is specified, the interactive configurator launches.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless PAPAN_LOG_LEVEL is set
		return logging.InitializeFromEnv()
	},
	RunE: runTUI,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		fmt.Fprintln(os.Stderr, "papan-cfg: not a terminal, the interactive configurator needs one.")
		return cmd.Help()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := newClient(serverURL)
	if err := tui.Run(ctx, c); err != nil {
		return fmt.Errorf("configurator error: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("papan-cfg %s\n", version.Full())
	},
}
