package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/papan/internal/client"
	"github.com/muurk/papan/internal/panel"
	"github.com/muurk/papan/internal/settings"
)

type (
	panelSavedMsg struct {
		cfg settings.Config
		err error
	}

	imageReadMsg struct {
		target panel.ImageTarget
		uri    string
		err    error
	}
)

// editMode is what the panel's input area is doing.
type editMode int

const (
	editNone editMode = iota
	editLine
	editArea
	editImagePath
)

// panelKeyMap defines key bindings for the settings panel
type panelKeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Edit    key.Binding
	Clear   key.Binding
	Save    key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k panelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Up, k.Down, k.Edit, k.Clear, k.Save, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k panelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Up, k.Down},
		{k.Edit, k.Clear, k.Save, k.Cancel},
	}
}

// editKeyMap defines key bindings while a field is being edited
type editKeyMap struct {
	Done   key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Done, k.Cancel} }

// FullHelp returns keybindings for the expanded help view
func (k editKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// PanelModel is the settings panel screen. It edits a draft of the record
// and commits it on save.
type PanelModel struct {
	Width  int
	Height int

	// Closed is set once the panel was saved or cancelled; Saved holds the
	// committed record after a save.
	Closed bool
	Saved  *settings.Config
	Saving bool
	Err    error

	panel     *panel.Panel
	committer panel.Committer
	cursor    int
	mode      editMode
	input     textinput.Model
	area      textarea.Model

	Help     help.Model
	Keys     panelKeyMap
	LineKeys editKeyMap
	AreaKeys editKeyMap
}

// NewPanelModel opens the panel on a copy of cfg. A nil committer leaves
// the panel read-only apart from its draft.
func NewPanelModel(cfg settings.Config, c *client.Client) PanelModel {
	p := panel.New()
	p.Open(cfg, string(panel.TabGeneral))

	input := textinput.New()
	input.CharLimit = 2048
	input.Width = 50

	area := textarea.New()
	area.SetWidth(60)
	area.SetHeight(6)
	area.ShowLineNumbers = false

	m := PanelModel{
		panel: p,
		input: input,
		area:  area,
		Help:  help.New(),
		Keys: panelKeyMap{
			NextTab: key.NewBinding(
				key.WithKeys("tab", "right", "l"),
				key.WithHelp("tab", "next tab"),
			),
			PrevTab: key.NewBinding(
				key.WithKeys("shift+tab", "left", "h"),
				key.WithHelp("shift+tab", "previous tab"),
			),
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "down"),
			),
			Edit: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter", "edit"),
			),
			Clear: key.NewBinding(
				key.WithKeys("x"),
				key.WithHelp("x", "remove image"),
			),
			Save: key.NewBinding(
				key.WithKeys("ctrl+s"),
				key.WithHelp("ctrl+s", "save"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		LineKeys: editKeyMap{
			Done:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
		},
		AreaKeys: editKeyMap{
			Done:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "apply")),
			Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
		},
	}
	if c != nil {
		m.committer = c
	}
	return m
}

// fields returns the fields of the active tab.
func (m PanelModel) fields() []panel.Field {
	return panel.FieldsFor(m.panel.Tab())
}

func (m PanelModel) current() (panel.Field, bool) {
	fs := m.fields()
	if m.cursor < 0 || m.cursor >= len(fs) {
		return panel.Field{}, false
	}
	return fs[m.cursor], true
}

// Update handles messages for the settings panel
func (m PanelModel) Update(msg tea.Msg) (PanelModel, tea.Cmd) {
	switch msg := msg.(type) {
	case panelSavedMsg:
		m.Saving = false
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Saved = &msg.cfg
		m.Closed = true
		return m, nil

	case imageReadMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Err = m.panel.SetImage(msg.target, msg.uri)
		return m, nil

	case tea.KeyMsg:
		if m.Saving {
			return m, nil
		}
		switch m.mode {
		case editLine, editImagePath:
			return m.updateLine(msg)
		case editArea:
			return m.updateArea(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m PanelModel) updateBrowse(msg tea.KeyMsg) (PanelModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		m.panel.Cancel()
		m.Closed = true

	case key.Matches(msg, m.Keys.Save):
		if m.committer == nil {
			m.Err = fmt.Errorf("no server to save to")
			return m, nil
		}
		m.Saving = true
		m.Err = nil
		return m, savePanel(m.panel, m.committer)

	case key.Matches(msg, m.Keys.NextTab):
		m.Err = m.panel.NextTab(1)
		m.cursor = 0

	case key.Matches(msg, m.Keys.PrevTab):
		m.Err = m.panel.NextTab(-1)
		m.cursor = 0

	case key.Matches(msg, m.Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.cursor < len(m.fields())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.Keys.Clear):
		if f, ok := m.current(); ok && f.Kind == panel.KindImage {
			m.Err = m.panel.SetImage(imageTarget(f), "")
		}

	case key.Matches(msg, m.Keys.Edit):
		return m.beginEdit()
	}
	return m, nil
}

// beginEdit toggles booleans, cycles fields with options and opens an
// input for the other kinds.
func (m PanelModel) beginEdit() (PanelModel, tea.Cmd) {
	f, ok := m.current()
	if !ok {
		return m, nil
	}
	m.Err = nil
	value, _ := m.panel.Value(f.Key)

	if len(f.Options) > 0 {
		m.Err = m.panel.Set(f.Key, nextOption(f, value))
		return m, nil
	}

	switch f.Kind {
	case panel.KindBool:
		next := "ya"
		if value == "ya" {
			next = "tidak"
		}
		m.Err = m.panel.Set(f.Key, next)
		return m, nil

	case panel.KindImage:
		m.mode = editImagePath
		m.input.Placeholder = "/path/to/image.png"
		m.input.SetValue("")
		return m, m.input.Focus()

	case panel.KindList, panel.KindMultiline:
		m.mode = editArea
		m.area.SetValue(value)
		return m, m.area.Focus()

	default:
		m.mode = editLine
		m.input.Placeholder = ""
		m.input.SetValue(value)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
}

func (m PanelModel) updateLine(msg tea.KeyMsg) (PanelModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.LineKeys.Cancel):
		m.mode = editNone
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.LineKeys.Done):
		f, _ := m.current()
		value := m.input.Value()
		mode := m.mode
		m.mode = editNone
		m.input.Blur()
		if mode == editImagePath {
			return m, readImage(imageTarget(f), strings.TrimSpace(value))
		}
		m.Err = m.panel.Set(f.Key, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PanelModel) updateArea(msg tea.KeyMsg) (PanelModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.AreaKeys.Cancel):
		m.mode = editNone
		m.area.Blur()
		return m, nil

	case key.Matches(msg, m.AreaKeys.Done):
		f, _ := m.current()
		m.mode = editNone
		m.area.Blur()
		m.Err = m.panel.Set(f.Key, m.area.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

// View renders the settings panel
func (m PanelModel) View() string {
	var b strings.Builder

	if m.Saving {
		b.WriteString(SpinnerStyle.Render("Saving settings..."))
		return RenderApplicationContainer("Pengaturan", b.String(), "", m.Width, m.Height)
	}

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	changed := map[string]bool{}
	for _, k := range m.panel.Changed() {
		changed[k] = true
	}
	for i, f := range m.fields() {
		value, _ := m.panel.Value(f.Key)
		line := fmt.Sprintf("%-22s %s", f.Label, displayValue(f, value))
		if changed[f.Key] {
			line += " " + ChangedStyle.Render("*")
		}
		b.WriteString(RenderMenuItem(line, i == m.cursor))
		b.WriteString("\n")
	}

	switch m.mode {
	case editLine:
		b.WriteString("\n  " + m.input.View() + "\n")
	case editImagePath:
		b.WriteString("\n  Image file: " + m.input.View() + "\n")
	case editArea:
		b.WriteString("\n" + m.area.View() + "\n")
	}

	if m.Err != nil {
		b.WriteString("\n" + RenderError(client.GetShortErrorMessage(m.Err)))
		if client.IsValidationError(m.Err) || client.IsNetworkError(m.Err) {
			b.WriteString("\n" + SubtitleStyle.Render(client.GetTroubleshootingHint(m.Err)))
		}
	}

	var helpText string
	switch m.mode {
	case editLine, editImagePath:
		helpText = m.Help.View(m.LineKeys)
	case editArea:
		helpText = m.Help.View(m.AreaKeys)
	default:
		helpText = m.Help.View(m.Keys)
	}
	return RenderApplicationContainer("Pengaturan", b.String(), helpText, m.Width, m.Height)
}

func (m PanelModel) renderTabs() string {
	tabs := make([]string, 0, len(panel.Tabs))
	for _, t := range panel.Tabs {
		if t == m.panel.Tab() {
			tabs = append(tabs, ActiveTabStyle.Render(t.Label()))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(t.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// displayValue shortens a field value to one line.
func displayValue(f panel.Field, value string) string {
	switch f.Kind {
	case panel.KindImage:
		switch {
		case value == "":
			return SubtitleStyle.Render("(none)")
		case strings.HasPrefix(value, "data:"):
			mt, _, _ := strings.Cut(strings.TrimPrefix(value, "data:"), ";")
			return fmt.Sprintf("%s, %d bytes embedded", mt, len(value))
		}
	case panel.KindChoice, panel.KindInt:
		if len(f.Options) > 0 {
			return f.OptionLabel(value)
		}
	case panel.KindList:
		return fmt.Sprintf("%d lines", len(strings.Split(value, "\n")))
	}
	first, _, more := strings.Cut(value, "\n")
	if r := []rune(first); len(r) > 40 {
		first = string(r[:39]) + "…"
		more = true
	}
	if more && !strings.HasSuffix(first, "…") {
		first += " …"
	}
	return first
}

// nextOption returns the option after value, wrapping around. A value
// outside the options moves to the first one.
func nextOption(f panel.Field, value string) string {
	if len(f.Options) == 0 {
		return value
	}
	for i, o := range f.Options {
		if o.Value == value {
			return f.Options[(i+1)%len(f.Options)].Value
		}
	}
	return f.Options[0].Value
}

func imageTarget(f panel.Field) panel.ImageTarget {
	if f.Key == panel.ImageBackground.Key() {
		return panel.ImageBackground
	}
	return panel.ImageLogo
}

// readImage encodes the file off the UI goroutine; the result lands in the
// draft through imageReadMsg.
func readImage(target panel.ImageTarget, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return imageReadMsg{err: err}
		}
		defer f.Close()
		uri, err := panel.ImageDataURI(f)
		return imageReadMsg{target: target, uri: uri, err: err}
	}
}

// savePanel commits the draft. The view does not touch the panel while
// Saving is set.
func savePanel(p *panel.Panel, c panel.Committer) tea.Cmd {
	return func() tea.Msg {
		var saved settings.Config
		err := p.Save(panel.CommitFunc(func(cfg settings.Config) error {
			if err := c.Commit(cfg); err != nil {
				return err
			}
			saved = cfg
			return nil
		}))
		return panelSavedMsg{cfg: saved, err: err}
	}
}
