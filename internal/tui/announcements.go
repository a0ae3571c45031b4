package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/client"
)

// announcementsDoneMsg carries the list after a committed change.
type announcementsDoneMsg struct {
	items []announcement.Announcement
	err   error
}

// formFields lists the editable announcement fields in form order.
var formFields = []struct {
	name  string
	label string
}{
	{"day", "Hari"},
	{"time", "Waktu"},
	{"title", "Kegiatan"},
	{"location", "Tempat"},
	{"notes", "Keterangan"},
	{"status", "Status"},
}

// announcementsKeyMap defines key bindings for the agenda list
type announcementsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Back   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k announcementsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.New, k.Edit, k.Delete, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k announcementsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.New, k.Edit, k.Delete, k.Back},
	}
}

// formKeyMap defines key bindings for the add/edit form
type formKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Save   key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Save, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// AnnouncementsModel lists the agenda and edits it through the server.
type AnnouncementsModel struct {
	Width  int
	Height int

	Items  []announcement.Announcement
	Closed bool
	Busy   bool
	Err    error

	editor        *announcement.Editor
	client        *client.Client
	cursor        int
	field         int
	editing       bool
	confirmDelete bool
	input         textinput.Model

	Help     help.Model
	Keys     announcementsKeyMap
	FormKeys formKeyMap
}

// NewAnnouncementsModel creates the agenda screen. Mutations are refused
// unless editing is enabled in the record.
func NewAnnouncementsModel(c *client.Client, items []announcement.Announcement, editable bool) AnnouncementsModel {
	input := textinput.New()
	input.CharLimit = 500
	input.Width = 50

	m := AnnouncementsModel{
		Items:  items,
		editor: announcement.NewEditor(c, editable),
		client: c,
		input:  input,
		Help:   help.New(),
		Keys: announcementsKeyMap{
			Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
			Edit:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
			Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
			Back:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
		},
		FormKeys: formKeyMap{
			Up:     key.NewBinding(key.WithKeys("up", "shift+tab"), key.WithHelp("↑", "previous")),
			Down:   key.NewBinding(key.WithKeys("down", "tab"), key.WithHelp("↓", "next")),
			Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
			Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
			Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		},
	}
	if len(items) > 0 {
		m.editor.Select(items[0].ID)
	}
	return m
}

// Update handles messages for the agenda screen
func (m AnnouncementsModel) Update(msg tea.Msg) (AnnouncementsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case announcementsDoneMsg:
		m.Busy = false
		m.Err = msg.err
		if msg.items != nil {
			m.Items = msg.items
			m.cursor = min(m.cursor, max(len(m.Items)-1, 0))
		}
		return m, nil

	case tea.KeyMsg:
		if m.Busy {
			return m, nil
		}
		switch {
		case m.editing:
			return m.updateInput(msg)
		case m.editor.Mode() != announcement.ModeView:
			return m.updateForm(msg)
		case m.confirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m AnnouncementsModel) selected() (announcement.Announcement, bool) {
	if m.cursor < 0 || m.cursor >= len(m.Items) {
		return announcement.Announcement{}, false
	}
	return m.Items[m.cursor], true
}

func (m AnnouncementsModel) updateList(msg tea.KeyMsg) (AnnouncementsModel, tea.Cmd) {
	m.Err = nil
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.Closed = true

	case key.Matches(msg, m.Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.cursor < len(m.Items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.Keys.New):
		m.Err = m.editor.BeginAdd()
		m.field = 0

	case key.Matches(msg, m.Keys.Edit):
		if a, ok := m.selected(); ok {
			m.Err = m.editor.BeginEdit(a)
			m.field = 0
		}

	case key.Matches(msg, m.Keys.Delete):
		if _, ok := m.selected(); ok {
			if !m.editor.Enabled() {
				m.Err = announcement.ErrEditingDisabled
				break
			}
			m.confirmDelete = true
		}
	}
	if a, ok := m.selected(); ok {
		m.editor.Select(a.ID)
	}
	return m, nil
}

func (m AnnouncementsModel) updateConfirm(msg tea.KeyMsg) (AnnouncementsModel, tea.Cmd) {
	m.confirmDelete = false
	if msg.String() != "y" {
		return m, nil
	}
	a, ok := m.selected()
	if !ok {
		return m, nil
	}
	m.Busy = true
	editor, c := m.editor, m.client
	return m, func() tea.Msg {
		if err := editor.Delete(a.ID); err != nil {
			return announcementsDoneMsg{err: err}
		}
		items, err := c.Announcements()
		return announcementsDoneMsg{items: items, err: err}
	}
}

func (m AnnouncementsModel) updateForm(msg tea.KeyMsg) (AnnouncementsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.FormKeys.Cancel):
		m.editor.CancelEdit()
		m.Err = nil

	case key.Matches(msg, m.FormKeys.Up):
		m.field = (m.field + len(formFields) - 1) % len(formFields)

	case key.Matches(msg, m.FormKeys.Down):
		m.field = (m.field + 1) % len(formFields)

	case key.Matches(msg, m.FormKeys.Save):
		if err := announcement.Validate(m.editor.Form); err != nil {
			m.Err = err
			return m, nil
		}
		m.Busy = true
		m.Err = nil
		editor, c := m.editor, m.client
		return m, func() tea.Msg {
			if _, err := editor.Commit(); err != nil {
				return announcementsDoneMsg{err: err}
			}
			items, err := c.Announcements()
			return announcementsDoneMsg{items: items, err: err}
		}

	case key.Matches(msg, m.FormKeys.Edit):
		name := formFields[m.field].name
		switch name {
		case "day":
			m.Err = m.editor.SetField(name, cycle(announcement.Days, m.editor.Form.Day))
		case "status":
			statuses := make([]string, len(announcement.Statuses))
			for i, s := range announcement.Statuses {
				statuses[i] = string(s)
			}
			m.Err = m.editor.SetField(name, cycle(statuses, string(m.editor.Form.Status)))
		default:
			m.editing = true
			m.input.SetValue(formValue(m.editor.Form, name))
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m AnnouncementsModel) updateInput(msg tea.KeyMsg) (AnnouncementsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		m.Err = m.editor.SetField(formFields[m.field].name, m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the agenda screen
func (m AnnouncementsModel) View() string {
	var b strings.Builder
	helpText := m.Help.View(m.Keys)

	switch {
	case m.Busy:
		b.WriteString(SpinnerStyle.Render("Saving agenda..."))
	case m.editor.Mode() != announcement.ModeView:
		b.WriteString(m.renderForm())
		helpText = m.Help.View(m.FormKeys)
	default:
		b.WriteString(m.renderList())
		if m.confirmDelete {
			a, _ := m.selected()
			b.WriteString("\n" + ChangedStyle.Render(fmt.Sprintf("Hapus agenda %q? (y/n)", a.Title)))
		}
	}

	if m.Err != nil {
		b.WriteString("\n\n" + RenderError(errorText(m.Err)))
	}
	return RenderApplicationContainer("Agenda", b.String(), helpText, m.Width, m.Height)
}

func (m AnnouncementsModel) renderList() string {
	if len(m.Items) == 0 {
		return SubtitleStyle.Render("Belum ada agenda. Press n to add one.")
	}
	width := max(m.Width, MinTerminalWidth) - 12
	lines := make([]string, len(m.Items))
	for i, a := range m.Items {
		lines[i] = RenderMenuItem(boardLine(a, width), i == m.cursor)
	}
	out := strings.Join(lines, "\n")
	if !m.editor.Enabled() {
		out += "\n\n" + SubtitleStyle.Render("Editing is disabled in the settings.")
	}
	return out
}

func (m AnnouncementsModel) renderForm() string {
	var b strings.Builder
	b.WriteString(PaneTitleStyle.Render(m.editor.Mode().String()))
	b.WriteString("\n\n")
	for i, f := range formFields {
		value := formValue(m.editor.Form, f.name)
		if f.name == "status" {
			value = announcement.Status(value).Label()
		}
		if m.editing && i == m.field {
			value = m.input.View()
		}
		b.WriteString(RenderMenuItem(fmt.Sprintf("%-11s %s", f.label, value), i == m.field))
		b.WriteString("\n")
	}
	return b.String()
}

func formValue(a announcement.Announcement, name string) string {
	switch name {
	case "day":
		return a.Day
	case "time":
		return a.Time
	case "title":
		return a.Title
	case "location":
		return a.Location
	case "notes":
		return a.Notes
	case "status":
		return string(a.Status)
	}
	return ""
}

// cycle returns the element after current, wrapping around.
func cycle(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func errorText(err error) string {
	switch {
	case errors.Is(err, announcement.ErrEditingDisabled), client.IsForbidden(err):
		return "Editing is disabled. Turn it on in the settings panel."
	case announcement.IsValidationError(err):
		return err.Error()
	}
	return client.GetShortErrorMessage(err)
}
