package tui

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/client"
	"github.com/muurk/papan/internal/layout"
	"github.com/muurk/papan/internal/schedule"
	"github.com/muurk/papan/internal/settings"
	"github.com/muurk/papan/internal/widget"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery     Screen = "discovery"
	ScreenPreview       Screen = "preview"
	ScreenPanel         Screen = "panel"
	ScreenAnnouncements Screen = "announcements"
)

// Messages shared between screens
type (
	boardSelectedMsg struct{ client *client.Client }

	loadedMsg struct {
		cfg    settings.Config
		items  []announcement.Announcement
		stream widget.Source
		err    error
	}

	// frameMsg asks for a redraw after a widget timer fired.
	frameMsg struct{}

	// remoteChangeMsg reports a change pushed by the server.
	remoteChangeMsg struct {
		client *client.Client
		kind   string
	}
)

// frames coalesces widget timer callbacks into at most one pending redraw.
type frames struct {
	send    func(tea.Msg)
	pending atomic.Bool
}

// notify never blocks: Program.Send waits for the event loop, and the loop
// stops widget groups from Update, which waits for this callback.
func (f *frames) notify() {
	if f == nil || f.send == nil {
		return
	}
	if f.pending.CompareAndSwap(false, true) {
		go f.send(frameMsg{})
	}
}

func (f *frames) done() {
	if f != nil {
		f.pending.Store(false)
	}
}

// mounted holds the animated widgets of the preview for one record.
type mounted struct {
	group   *schedule.Group
	clock   *widget.Clock
	scroll  *widget.BoardScroll
	marquee *widget.Marquee
}

func mount(ctx context.Context, page layout.Page, notify func()) *mounted {
	w := &mounted{
		group:  schedule.NewGroup(ctx),
		clock:  widget.NewClock(nil),
		scroll: widget.NewBoardScroll(page.Board.ScrollSpeed, page.Board.ScrollDirection, 0),
	}
	w.clock.Mount(w.group, notify)
	w.scroll.Mount(w.group, notify)
	if page.Ticker != nil {
		w.marquee = widget.NewMarquee(page.Ticker.ScrollSpeed, page.Ticker.Direction, nil)
		w.marquee.Mount(w.group, notify)
	}
	return w
}

func (w *mounted) stop() {
	if w != nil {
		w.group.Stop()
	}
}

// previewKeyMap defines key bindings for the preview screen
type previewKeyMap struct {
	Settings      key.Binding
	Announcements key.Binding
	Refresh       key.Binding
	Discover      key.Binding
	Quit          key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k previewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Settings, k.Announcements, k.Refresh, k.Discover, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k previewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Settings, k.Announcements},
		{k.Refresh, k.Discover, k.Quit},
	}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	// Screen models
	Discovery     DiscoveryModel
	Panel         PanelModel
	Announcements AnnouncementsModel

	// Shared application state
	Client        *client.Client
	Config        settings.Config
	Page          layout.Page
	Items         []announcement.Announcement
	Stream        widget.Source
	Loaded        bool
	LastError     error
	StatusMessage string

	// UI state
	Width  int
	Height int

	ctx     context.Context
	frames  *frames
	widgets *mounted
	toggle  *layout.Toggle

	Help help.Model
	Keys previewKeyMap
}

// NewAppModel creates the application model. With a nil client the
// discovery screen comes first.
func NewAppModel(ctx context.Context, c *client.Client) AppModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := AppModel{
		CurrentScreen: ScreenPreview,
		Client:        c,
		ctx:           ctx,
		frames:        &frames{},
		toggle:        &layout.Toggle{},
		Help:          help.New(),
		Keys: previewKeyMap{
			Settings: key.NewBinding(
				key.WithKeys("s"),
				key.WithHelp("s", "settings"),
			),
			Announcements: key.NewBinding(
				key.WithKeys("a"),
				key.WithHelp("a", "agenda"),
			),
			Refresh: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "refresh"),
			),
			Discover: key.NewBinding(
				key.WithKeys("d"),
				key.WithHelp("d", "boards"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
	}
	if c == nil {
		m.CurrentScreen = ScreenDiscovery
		m.Discovery = NewDiscoveryModel()
	}
	return m
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	if m.CurrentScreen == ScreenDiscovery {
		return m.Discovery.Init()
	}
	return tea.Batch(loadBoard(m.Client), watchChanges(m.ctx, m.Client))
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Discovery.Width, m.Discovery.Height = msg.Width, msg.Height
		m.Panel.Width, m.Panel.Height = msg.Width, msg.Height
		m.Announcements.Width, m.Announcements.Height = msg.Width, msg.Height
		m.resizeBoard()
		if m.CurrentScreen == ScreenDiscovery {
			updated, cmd := m.Discovery.Update(msg)
			m.Discovery = updated.(DiscoveryModel)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.widgets.stop()
			return m, tea.Quit
		}

	case frameMsg:
		m.frames.done()
		return m, nil

	case boardSelectedMsg:
		m.Client = msg.client
		m.CurrentScreen = ScreenPreview
		m.Loaded = false
		return m, tea.Batch(loadBoard(m.Client), watchChanges(m.ctx, m.Client))

	case loadedMsg:
		return m.applyLoaded(msg), nil

	case remoteChangeMsg:
		if msg.client != m.Client {
			return m, nil
		}
		if msg.kind != "reconnect" {
			m.StatusMessage = "Board changed on the server (" + msg.kind + ")"
		}
		return m, tea.Batch(loadBoard(m.Client), watchChanges(m.ctx, m.Client))
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, cmd := m.Discovery.Update(msg)
		m.Discovery = updated.(DiscoveryModel)
		if m.Discovery.Quit {
			return m, tea.Quit
		}
		return m, cmd

	case ScreenPanel:
		updated, cmd := m.Panel.Update(msg)
		m.Panel = updated
		if m.Panel.Closed {
			m.toggle.Hide()
			m.CurrentScreen = ScreenPreview
			if m.Panel.Saved != nil {
				m.StatusMessage = "Settings saved"
				m = m.applyConfig(*m.Panel.Saved)
			}
		}
		return m, cmd

	case ScreenAnnouncements:
		updated, cmd := m.Announcements.Update(msg)
		m.Announcements = updated
		if m.Announcements.Closed {
			m.CurrentScreen = ScreenPreview
			m.Items = m.Announcements.Items
			m.resizeBoard()
		}
		return m, cmd

	default:
		return m.updatePreview(msg)
	}
}

func (m AppModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Quit):
		m.widgets.stop()
		return m, tea.Quit

	case key.Matches(keyMsg, m.Keys.Settings):
		if !m.Loaded {
			return m, nil
		}
		if m.toggle.Flip() {
			m.Panel = NewPanelModel(m.Config, m.Client)
			m.Panel.Width, m.Panel.Height = m.Width, m.Height
			m.CurrentScreen = ScreenPanel
		}

	case key.Matches(keyMsg, m.Keys.Announcements):
		if !m.Loaded {
			return m, nil
		}
		m.Announcements = NewAnnouncementsModel(m.Client, m.Items, m.Config.EnableAnnouncementEditing)
		m.Announcements.Width, m.Announcements.Height = m.Width, m.Height
		m.CurrentScreen = ScreenAnnouncements

	case key.Matches(keyMsg, m.Keys.Refresh):
		m.StatusMessage = ""
		return m, loadBoard(m.Client)

	case key.Matches(keyMsg, m.Keys.Discover):
		m.widgets.stop()
		m.widgets = nil
		m.CurrentScreen = ScreenDiscovery
		m.Discovery = NewDiscoveryModel()
		m.Discovery.Width, m.Discovery.Height = m.Width, m.Height
		return m, m.Discovery.Init()
	}
	return m, nil
}

func (m AppModel) applyLoaded(msg loadedMsg) AppModel {
	if msg.err != nil {
		m.LastError = msg.err
		return m
	}
	m.LastError = nil
	m.Items = msg.items
	m.Stream = msg.stream
	return m.applyConfig(msg.cfg)
}

// applyConfig recomposes the page and remounts the widgets.
func (m AppModel) applyConfig(cfg settings.Config) AppModel {
	m.Config = cfg
	m.Page = layout.Compose(cfg)
	m.Loaded = true
	m.widgets.stop()
	m.widgets = mount(m.ctx, m.Page, m.frames.notify)
	m.resizeBoard()
	return m
}

func (m AppModel) resizeBoard() {
	if m.widgets == nil {
		return
	}
	rows := len(m.Items) - boardRows(m.Height, m.Page.Ticker != nil)
	if rows < 0 {
		rows = 0
	}
	m.widgets.scroll.Resize(rows * rowPixels)
}

// View renders the active screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.Discovery.View()
	case ScreenPanel:
		return m.Panel.View()
	case ScreenAnnouncements:
		return m.Announcements.View()
	}

	var content string
	switch {
	case m.LastError != nil:
		content = RenderError(client.GetShortErrorMessage(m.LastError)) + "\n\n" +
			SubtitleStyle.Render(client.GetTroubleshootingHint(m.LastError))
	case !m.Loaded:
		content = SubtitleStyle.Render("Loading board...")
	default:
		content = renderPreview(m.Page, m.Items, m.Stream, m.widgets, m.Width, m.Height)
	}
	if m.StatusMessage != "" {
		content += "\n" + RenderSuccess(m.StatusMessage)
	}
	return RenderApplicationContainer(m.boardName(), content, m.Help.View(m.Keys), m.Width, m.Height)
}

func (m AppModel) boardName() string {
	if m.Client == nil {
		return ""
	}
	return m.Client.BaseURL
}

// loadBoard fetches everything the preview shows.
func loadBoard(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		cfg, err := c.Settings()
		if err != nil {
			return loadedMsg{err: err}
		}
		items, err := c.Announcements()
		if err != nil {
			return loadedMsg{err: err}
		}
		src, err := c.Stream()
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{cfg: cfg, items: items, stream: src}
	}
}

// Run starts the terminal configurator. With a nil client it opens on the
// discovery screen.
func Run(ctx context.Context, c *client.Client) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewAppModel(ctx, c)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.frames.send = p.Send

	_, err := p.Run()
	return err
}
