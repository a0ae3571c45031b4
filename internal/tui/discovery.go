package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/papan/internal/client"
	"github.com/muurk/papan/internal/discovery"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	boards []*discovery.Board
	err    error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual address entry
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// boardItem wraps a Board for use with bubbles/list
type boardItem struct {
	board *discovery.Board
}

// FilterValue implements list.Item
func (b boardItem) FilterValue() string {
	return b.board.Instance + " " + b.board.IP + " " + b.board.Hostname
}

// Title returns the board name for list display
func (b boardItem) Title() string { return b.board.Instance }

// Description returns board details for list display
func (b boardItem) Description() string {
	v := b.board.Version()
	if v == "" {
		v = "unknown"
	}
	return fmt.Sprintf("%s • version %s", b.board.BaseURL(), v)
}

// boardDelegate renders boards as compact cards
type boardDelegate struct{}

func (d boardDelegate) Height() int { return 4 }

func (d boardDelegate) Spacing() int { return 1 }

func (d boardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d boardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	bi, ok := item.(boardItem)
	if !ok {
		return
	}
	selected := index == m.Index()

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 2).
		MarginLeft(2).
		Width(max(m.Width()-8, MinTerminalWidth-8))
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	title := "  " + bi.Title()
	if selected {
		title = SelectedMenuItemStyle.Render("→ " + bi.Title())
	}
	fmt.Fprint(w, cardStyle.Render(title+"\n"+SubtitleStyle.Render(bi.Description())))
}

// DiscoveryModel lists papan servers found over mDNS and accepts a manual
// address.
type DiscoveryModel struct {
	Scanning  bool
	BoardList list.Model
	Err       error
	Quit      bool

	ManualMode bool
	URLInput   textinput.Model

	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	ScanTimeout   time.Duration
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
}

// NewDiscoveryModel creates a new discovery screen model
func NewDiscoveryModel() DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "192.168.1.20:8080"
	urlInput.CharLimit = 253
	urlInput.Width = 40

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	boards := list.New([]list.Item{}, boardDelegate{}, 0, 0)
	boards.Title = "Papan Ditemukan"
	boards.SetShowStatusBar(false)
	boards.SetFilteringEnabled(true)
	boards.Styles.Title = TitleStyle

	return DiscoveryModel{
		BoardList:   boards,
		URLInput:    urlInput,
		Spinner:     s,
		ProgressBar: bar,
		ScanTimeout: discovery.DefaultScanTimeout,
		Help:        help.New(),
		Keys: discoveryKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "open"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter address"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "connect"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoveryModel) startScan() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		scanBoards(m.ScanTimeout),
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		if m.Scanning {
			switch msg.String() {
			case "m":
				return m.enterManualMode(), nil
			case "q":
				m.Quit = true
			}
			return m, nil
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.BoardList.SetWidth(msg.Width - 4)
		m.BoardList.SetHeight(contentHeight(msg.Height) - 2)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.boards))
		for i, b := range msg.boards {
			items[i] = boardItem{board: b}
		}
		m.BoardList.SetItems(items)

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.ManualMode && !m.Scanning {
		m.BoardList, cmd = m.BoardList.Update(msg)
	}
	return m, cmd
}

func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.BoardList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.BoardList, cmd = m.BoardList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quit = true
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.BoardList.SelectedItem().(boardItem); ok {
			return m, selectBoard(item.board.BaseURL())
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.BoardList.SetItems([]list.Item{})
		m.Err = nil
		return m, m.startScan()

	case key.Matches(msg, m.Keys.Manual):
		return m.enterManualMode(), nil
	}

	var cmd tea.Cmd
	m.BoardList, cmd = m.BoardList.Update(msg)
	return m, cmd
}

func (m DiscoveryModel) enterManualMode() DiscoveryModel {
	m.ManualMode = true
	m.URLInput.SetValue("")
	m.URLInput.Focus()
	return m
}

func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		value := strings.TrimSpace(m.URLInput.Value())
		if value == "" {
			return m, nil
		}
		m.ManualMode = false
		m.URLInput.Blur()
		return m, selectBoard(value)
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := max(m.Width, MinTerminalWidth)

	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning(width)
		helpText = SubtitleStyle.Render("m enter address • q quit")
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}
	return RenderApplicationContainer("", content, helpText, m.Width, m.Height)
}

func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	progress := 0.0
	if m.ScanTimeout > 0 {
		progress = min(elapsed.Seconds()/m.ScanTimeout.Seconds(), 1)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" MENCARI PAPAN"),
		SubtitleStyle.Render("Scanning the local network for papan servers..."),
		"",
		m.ProgressBar.ViewAs(progress),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
	)
	return lipgloss.Place(width-6, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m DiscoveryModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(troubleshooting)
	case len(m.BoardList.Items()) == 0:
		warn := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  " + warn.Render("⚠ No boards found on your network"))
		b.WriteString("\n\n")
		b.WriteString(troubleshooting)
	default:
		b.WriteString(m.BoardList.View())
	}
	return b.String()
}

const troubleshooting = `  Troubleshooting:
    • Check that papan-server is running with discovery enabled
    • Make sure this computer is on the same network as the board
    • Allow mDNS (UDP port 5353) through the firewall
    • Press 'm' to enter the server address directly
`

func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(SubtitleStyle.Render("Enter the papan server address"))
	b.WriteString("\n\n  Address: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n\n")
	return b.String()
}

// scanBoards browses mDNS for the scan timeout.
func scanBoards(timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		scanner := discovery.NewScanner()
		scanner.Timeout = timeout
		boards, err := scanner.Scan(context.Background())
		return scanCompleteMsg{boards: boards, err: err}
	}
}

func selectBoard(address string) tea.Cmd {
	return func() tea.Msg {
		return boardSelectedMsg{client: client.NewWithURL(address)}
	}
}
