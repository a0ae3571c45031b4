package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/client"
	"github.com/muurk/papan/internal/discovery"
	"github.com/muurk/papan/internal/panel"
	"github.com/muurk/papan/internal/ui"
)

// errReported is returned after a failure box was printed.
var errReported = errors.New("reported")

// Common flags
var (
	serverURL    string
	boardName    string
	scanTimeout  int
	outputFormat string
	settingsTab  string
	assumeYes    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server URL or host:port (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&boardName, "board", "", "Pick a discovered board by instance name")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(resetCmd)
}

// scanCmd discovers boards on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for papan boards on the network",
	Long: `Scan for papan servers using mDNS/DNS-SD discovery.

Every papan-server advertises itself unless started with --no-mdns.`,
	Example: `  # Scan for 5 seconds (default)
  papan-cfg scan

  # Longer scan for busy networks
  papan-cfg scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Board Discovery", "papan-cfg scan",
		ui.Param{Key: "Timeout", Value: fmt.Sprintf("%ds", scanTimeout)})

	boards, err := scan(cmd.Context(), time.Duration(scanTimeout)*time.Second)
	if err != nil {
		p.PrintError("Scan failed", err, "Check that multicast traffic is allowed on this network")
		return errReported
	}

	if len(boards) == 0 {
		p.PrintWarning("No boards found")
		p.Println(ui.TroubleshootingItemStyle.Render(strings.Join([]string{
			"  • Check that papan-server is running on this network",
			"  • Servers started with --no-mdns are not advertised",
			"  • Try increasing --timeout for slower networks",
			"  • Use --server to connect by address",
		}, "\n")))
		return nil
	}

	p.Println(ui.RenderBoards(boards))
	p.Newline()
	p.Println(ui.TroubleshootingItemStyle.Render("Use 'papan-cfg show --server <address>' to view a board's settings"))
	return nil
}

// showCmd displays the settings record
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show board settings",
	Long: `Display the settings record of a papan board, grouped by the tabs of
the settings panel.`,
	Example: `  # Show settings with auto-discovery
  papan-cfg show

  # Only the running text tab
  papan-cfg show --server 192.168.1.20:8080 --tab runningtext

  # JSON output for scripting
  papan-cfg show --format json`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, json)")
	showCmd.Flags().StringVar(&settingsTab, "tab", "", "Only show one tab (general, header, background, stream, announcement, runningtext)")
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := resolveClient(cmd)
	if err != nil {
		return err
	}

	cfg, err := c.Settings()
	if err != nil {
		return reportAPIError(cmd, "Failed to get settings", err)
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	params := []ui.Param{{Key: "Server", Value: c.BaseURL}}
	if settingsTab != "" {
		params = append(params, ui.Param{Key: "Tab", Value: panel.ParseTab(settingsTab).Label()})
	}
	p.PrintHeader("Settings", "papan-cfg show", params...)
	p.Println(ui.RenderSettings(cfg, settingsTab))
	return nil
}

// announceCmd groups the agenda commands
var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "List and edit announcements",
	Long: `List, add, edit and delete the announcements on the board's agenda.

Changes are refused while announcement editing is disabled in the settings.`,
}

// Announcement form flags
var (
	annDay      string
	annTime     string
	annTitle    string
	annLocation string
	annNotes    string
	annStatus   string
)

func init() {
	for _, c := range []*cobra.Command{announceAddCmd, announceEditCmd} {
		c.Flags().StringVar(&annDay, "day", "", "Day (SENIN, SELASA, RABU, KAMIS, JUMAT, SABTU, MINGGU)")
		c.Flags().StringVar(&annTime, "time", "", "Time, e.g. \"09.00 WIB s.d 12.00 WIB\"")
		c.Flags().StringVar(&annTitle, "title", "", "Title")
		c.Flags().StringVar(&annLocation, "location", "", "Location")
		c.Flags().StringVar(&annNotes, "notes", "", "Notes")
		c.Flags().StringVar(&annStatus, "status", "", "Status (upcoming, ongoing, completed, cancelled)")
	}

	announceCmd.AddCommand(announceListCmd)
	announceCmd.AddCommand(announceAddCmd)
	announceCmd.AddCommand(announceEditCmd)
	announceCmd.AddCommand(announceDeleteCmd)
}

var announceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List announcements",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveClient(cmd)
		if err != nil {
			return err
		}
		items, err := c.Announcements()
		if err != nil {
			return reportAPIError(cmd, "Failed to get announcements", err)
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Announcements", "papan-cfg announce list",
			ui.Param{Key: "Server", Value: c.BaseURL},
			ui.Param{Key: "Count", Value: strconv.Itoa(len(items))},
		)
		p.Println(ui.RenderAnnouncements(items))
		return nil
	},
}

var announceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an announcement",
	Example: `  papan-cfg announce add --day SENIN --time "09.00 WIB" \
    --title "Rapat Koordinasi" --location "Ruang Rapat Lt. 3"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := applyAnnouncementFlags(cmd, announcement.Blank())
		if err := announcement.Validate(a); err != nil {
			return err
		}

		c, err := resolveClient(cmd)
		if err != nil {
			return err
		}
		created, err := c.CreateAnnouncement(a)
		if err != nil {
			return reportAPIError(cmd, "Failed to add announcement", err)
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Announcement added", announcementParams(created)...)
		return nil
	},
}

var announceEditCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Edit an announcement",
	Long:    `Change the given fields of an announcement. Fields without a flag keep their value.`,
	Example: `  papan-cfg announce edit 2 --status ongoing`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c, err := resolveClient(cmd)
		if err != nil {
			return err
		}
		items, err := c.Announcements()
		if err != nil {
			return reportAPIError(cmd, "Failed to get announcements", err)
		}

		var current *announcement.Announcement
		for i := range items {
			if items[i].ID == id {
				current = &items[i]
				break
			}
		}
		if current == nil {
			return fmt.Errorf("announcement %d not found", id)
		}

		a := applyAnnouncementFlags(cmd, *current)
		if err := announcement.Validate(a); err != nil {
			return err
		}
		if err := c.UpdateAnnouncement(a); err != nil {
			return reportAPIError(cmd, "Failed to update announcement", err)
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Announcement updated", announcementParams(a)...)
		return nil
	},
}

var announceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an announcement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		c, err := resolveClient(cmd)
		if err != nil {
			return err
		}
		if err := c.DeleteAnnouncement(id); err != nil {
			return reportAPIError(cmd, "Failed to delete announcement", err)
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Announcement deleted",
			ui.Param{Key: "ID", Value: strconv.Itoa(id)})
		return nil
	},
}

// applyAnnouncementFlags copies the form flags the user set onto a.
func applyAnnouncementFlags(cmd *cobra.Command, a announcement.Announcement) announcement.Announcement {
	flags := cmd.Flags()
	if flags.Changed("day") {
		a.Day = strings.ToUpper(strings.TrimSpace(annDay))
	}
	if flags.Changed("time") {
		a.Time = annTime
	}
	if flags.Changed("title") {
		a.Title = annTitle
	}
	if flags.Changed("location") {
		a.Location = annLocation
	}
	if flags.Changed("notes") {
		a.Notes = annNotes
	}
	if flags.Changed("status") {
		a.Status = announcement.Status(strings.ToLower(strings.TrimSpace(annStatus)))
	}
	return a
}

func announcementParams(a announcement.Announcement) []ui.Param {
	return []ui.Param{
		{Key: "ID", Value: strconv.Itoa(a.ID)},
		{Key: "Day", Value: a.Day},
		{Key: "Time", Value: a.Time},
		{Key: "Title", Value: a.Title},
		{Key: "Status", Value: a.Status.Label()},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid announcement id %q", s)
	}
	return id, nil
}

// streamCmd shows or overrides the stream
var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Show or override the stream",
	Long: `Show the stream the displays are playing, or override it for the
running session. The override is not persisted and ends when the server
restarts, the default stream URL changes, or 'papan-cfg stream clear' runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveClient(cmd)
		if err != nil {
			return err
		}
		src, err := c.Stream()
		if err != nil {
			return reportAPIError(cmd, "Failed to get stream", err)
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintHeader("Stream", "papan-cfg stream", ui.StreamParams(src)...)
		return nil
	},
}

func init() {
	streamCmd.AddCommand(streamSetCmd)
	streamCmd.AddCommand(streamClearCmd)
}

var streamSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Play another stream on every display",
	Long: `Play another stream until cleared. YouTube watch, short and live links
are converted to their embed form; .m3u8 URLs use the HLS player.`,
	Example: `  papan-cfg stream set https://www.youtube.com/watch?v=dQw4w9WgXcQ`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveClient(cmd)
		if err != nil {
			return err
		}
		src, err := c.SetStream(args[0])
		if err != nil {
			return reportAPIError(cmd, "Failed to set stream", err)
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Stream updated", ui.StreamParams(src)...)
		return nil
	},
}

var streamClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Return to the default stream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveClient(cmd)
		if err != nil {
			return err
		}
		src, err := c.ClearStream()
		if err != nil {
			return reportAPIError(cmd, "Failed to clear stream", err)
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Stream override cleared", ui.StreamParams(src)...)
		return nil
	},
}

// uploadCmd sends an image for the logo or the background
var uploadCmd = &cobra.Command{
	Use:       "upload <logo|background> <file>",
	Short:     "Upload the logo or background image",
	Long:      `Upload an image file. The server stores it in the settings record as a data URI.`,
	Example:   `  papan-cfg upload logo ./logo.png`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"logo", "background"},
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target != "logo" && target != "background" {
			return fmt.Errorf("unknown image target %q (use logo or background)", target)
		}
		if _, err := os.Stat(args[1]); err != nil {
			return fmt.Errorf("cannot read image: %w", err)
		}

		c, err := resolveClient(cmd)
		if err != nil {
			return err
		}
		if _, err := c.UploadImage(target, args[1]); err != nil {
			return reportAPIError(cmd, "Upload failed", err)
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Image uploaded",
			ui.Param{Key: "Target", Value: target},
			ui.Param{Key: "File", Value: args[1]},
		)
		return nil
	},
}

// resetCmd restores the default settings
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Long: `Replace the settings record with the defaults. Announcements are kept.

Asks for confirmation unless --yes is given. Without a terminal --yes is
required.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	c, err := resolveClient(cmd)
	if err != nil {
		return err
	}

	if !assumeYes {
		if !ui.IsInteractive() {
			return errors.New("refusing to reset without confirmation (use --yes)")
		}
		if !ui.ConfirmReset(cmd.InOrStdin(), cmd.OutOrStdout(), c.BaseURL) {
			return nil
		}
	}

	if _, err := c.ResetSettings(); err != nil {
		return reportAPIError(cmd, "Reset failed", err)
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Settings restored to defaults",
		ui.Param{Key: "Server", Value: c.BaseURL})
	return nil
}

// newClient returns a client for url, or nil when url is empty.
func newClient(url string) *client.Client {
	if url == "" {
		return nil
	}
	return client.NewWithURL(url)
}

// resolveClient returns the client for --server, or for the single board
// found by discovery.
func resolveClient(cmd *cobra.Command) (*client.Client, error) {
	if c := newClient(serverURL); c != nil {
		return c, nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if boardName != "" {
		scanner := discovery.NewScanner()
		b, err := scanner.Find(ctx, boardName)
		if err != nil {
			return nil, err
		}
		return client.NewWithURL(b.BaseURL()), nil
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "No --server specified, attempting auto-discovery...")
	boards, err := scan(ctx, discovery.DefaultScanTimeout)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	switch len(boards) {
	case 0:
		return nil, errors.New("no boards found. Use --server to specify the address")
	case 1:
		fmt.Fprintf(cmd.ErrOrStderr(), "Found board: %s (%s)\n\n", boards[0].Instance, boards[0].BaseURL())
		return client.NewWithURL(boards[0].BaseURL()), nil
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderBoards(boards))
		return nil, errors.New("multiple boards found. Use --server or --board to pick one")
	}
}

func scan(ctx context.Context, timeout time.Duration) ([]*discovery.Board, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := discovery.NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}

// reportAPIError prints a failure box with the client's troubleshooting
// advice.
func reportAPIError(cmd *cobra.Command, title string, err error) error {
	ui.NewPrinter(cmd.OutOrStdout()).PrintError(title, errors.New(client.GetShortErrorMessage(err)), hintLines(err)...)
	return errReported
}

// hintLines splits a troubleshooting hint into tips.
func hintLines(err error) []string {
	var tips []string
	for _, line := range strings.Split(client.GetTroubleshootingHint(err), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		tips = append(tips, line)
	}
	return tips
}
