package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/client"
	"github.com/muurk/papan/internal/layout"
	"github.com/muurk/papan/internal/panel"
	"github.com/muurk/papan/internal/settings"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestMarqueeWindow(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		offset int
		width  int
		want   string
	}{
		{"entering from the right", "ABCD", 3, 5, "   AB"},
		{"fully visible", "ABCD", 0, 5, "ABCD "},
		{"leaving on the left", "ABCD", -2, 5, "CD   "},
		{"gone", "ABCD", -4, 5, "     "},
		{"zero width", "ABCD", 0, 0, ""},
		{"non-ascii", "Sélamat", 0, 3, "Sél"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := marqueeWindow(tt.line, tt.offset, tt.width); got != tt.want {
				t.Errorf("marqueeWindow(%q, %d, %d) = %q, want %q", tt.line, tt.offset, tt.width, got, tt.want)
			}
		})
	}
}

func waitFrame(t *testing.T, sent <-chan tea.Msg) {
	t.Helper()
	select {
	case msg := <-sent:
		if _, ok := msg.(frameMsg); !ok {
			t.Fatalf("sent %T, want frameMsg", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame was sent")
	}
}

func TestFramesCoalesce(t *testing.T) {
	sent := make(chan tea.Msg, 4)
	f := &frames{send: func(msg tea.Msg) { sent <- msg }}

	f.notify()
	f.notify()
	f.notify()
	waitFrame(t, sent)
	select {
	case <-sent:
		t.Fatal("more than one frame sent before draw")
	case <-time.After(20 * time.Millisecond):
	}

	f.done()
	f.notify()
	waitFrame(t, sent)

	var nilFrames *frames
	nilFrames.notify()
	nilFrames.done()
}

func TestRemountWhileFrameSendPending(t *testing.T) {
	// Unbuffered like the program's message channel: a send completes only
	// once the event loop reads it.
	msgs := make(chan tea.Msg)
	entered := make(chan struct{}, 1)
	f := &frames{send: func(msg tea.Msg) {
		select {
		case entered <- struct{}{}:
		default:
		}
		msgs <- msg
	}}

	w := mount(context.Background(), layout.Compose(settings.Default()), f.notify)

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("no widget asked for a frame")
	}

	stopped := make(chan struct{})
	go func() {
		w.stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stopping the widgets waited on a pending frame send")
	}

	// The event loop picks the pending frame up afterwards
	if _, ok := (<-msgs).(frameMsg); !ok {
		t.Error("pending message is not a frameMsg")
	}
}

func TestNextOption(t *testing.T) {
	f, ok := panel.Lookup("runningTextDirection")
	if !ok {
		t.Fatal("runningTextDirection not found")
	}
	if got := nextOption(f, "left"); got != "right" {
		t.Errorf("nextOption(left) = %q, want right", got)
	}
	if got := nextOption(f, "right"); got != "left" {
		t.Errorf("nextOption(right) = %q, want left", got)
	}
	if got := nextOption(f, "sideways"); got != "left" {
		t.Errorf("nextOption(unknown) = %q, want first option", got)
	}
}

func TestCycle(t *testing.T) {
	if got := cycle(announcement.Days, "MINGGU"); got != "SENIN" {
		t.Errorf("cycle(MINGGU) = %q, want SENIN", got)
	}
	if got := cycle(announcement.Days, "SENIN"); got != "SELASA" {
		t.Errorf("cycle(SENIN) = %q, want SELASA", got)
	}
}

func TestDisplayValue(t *testing.T) {
	logo, _ := panel.Lookup("logoUrl")
	if got := displayValue(logo, "data:image/png;base64,AAAA"); !strings.Contains(got, "image/png") {
		t.Errorf("displayValue(data URI) = %q", got)
	}

	items, _ := panel.Lookup("runningTextItems")
	if got := displayValue(items, "one\ntwo\nthree"); got != "3 lines" {
		t.Errorf("displayValue(list) = %q, want 3 lines", got)
	}

	speed, _ := panel.Lookup("runningTextScrollSpeed")
	if got := displayValue(speed, "90"); got != "Sedang" {
		t.Errorf("displayValue(speed) = %q, want Sedang", got)
	}

	name, _ := panel.Lookup("institutionName")
	long := strings.Repeat("x", 60)
	if got := displayValue(name, long); len([]rune(got)) != 40 {
		t.Errorf("displayValue(long) has %d runes, want 40", len([]rune(got)))
	}
}

func TestBoardLineFitsWidth(t *testing.T) {
	a := announcement.Announcement{
		Day:      "SENIN",
		Time:     "09.00 WIB",
		Title:    strings.Repeat("Rapat Koordinasi ", 10),
		Location: "Aula",
		Status:   announcement.StatusOngoing,
	}
	line := boardLine(a, 60)
	if !strings.Contains(line, "Sedang Berlangsung") {
		t.Errorf("boardLine() = %q, want status label", line)
	}
	if !strings.Contains(line, "…") {
		t.Errorf("boardLine() = %q, want truncation", line)
	}
}

func TestPanelModelEditing(t *testing.T) {
	m := NewPanelModel(settings.Default(), nil)

	// textColor is the third field of the general tab.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.panel.Draft().TextColor; got != "text-gray-100" {
		t.Errorf("TextColor after cycling = %q, want text-gray-100", got)
	}
	if changed := m.panel.Changed(); len(changed) != 1 || changed[0] != "textColor" {
		t.Errorf("Changed() = %v, want [textColor]", changed)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.panel.Tab() != panel.TabHeader {
		t.Fatalf("tab = %s, want header", m.panel.Tab())
	}

	// showLogo toggles in place.
	for i := 0; i < 4; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.panel.Draft().ShowLogo {
		t.Error("ShowLogo should toggle on")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Err == nil || m.Saving {
		t.Error("saving without a server should fail without entering the saving state")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.Closed || m.Saved != nil {
		t.Error("esc should close the panel without saving")
	}
	if m.panel.IsOpen() {
		t.Error("panel should be closed after cancel")
	}
}

func TestPanelModelTextEdit(t *testing.T) {
	m := NewPanelModel(settings.Default(), nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != editLine {
		t.Fatalf("mode = %d, want line edit", m.mode)
	}
	m.input.SetValue("Dinas Kominfo")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.panel.Draft().InstitutionName; got != "Dinas Kominfo" {
		t.Errorf("InstitutionName = %q", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("discarded")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.panel.Draft().InstitutionName; got != "Dinas Kominfo" {
		t.Errorf("esc should discard the edit, got %q", got)
	}
	if m.Closed {
		t.Error("esc while editing should not close the panel")
	}
}

func TestPanelModelImageRead(t *testing.T) {
	m := NewPanelModel(settings.Default(), nil)
	m, _ = m.Update(imageReadMsg{target: panel.ImageLogo, uri: "data:image/png;base64,AAAA"})
	d := m.panel.Draft()
	if d.LogoURL != "data:image/png;base64,AAAA" || !d.ShowLogo {
		t.Errorf("draft logo = %q show=%t", d.LogoURL, d.ShowLogo)
	}

	m, _ = m.Update(imageReadMsg{err: panel.ErrNotImage})
	if !errors.Is(m.Err, panel.ErrNotImage) {
		t.Errorf("Err = %v, want ErrNotImage", m.Err)
	}
}

func TestPanelModelSavedMsg(t *testing.T) {
	m := NewPanelModel(settings.Default(), nil)
	m.Saving = true

	m, _ = m.Update(panelSavedMsg{err: errors.New("boom")})
	if m.Saving || m.Closed || m.Err == nil {
		t.Errorf("failed save: saving=%t closed=%t err=%v", m.Saving, m.Closed, m.Err)
	}

	cfg := settings.Default()
	cfg.InstitutionName = "Saved"
	m, _ = m.Update(panelSavedMsg{cfg: cfg})
	if !m.Closed || m.Saved == nil || m.Saved.InstitutionName != "Saved" {
		t.Errorf("successful save: closed=%t saved=%v", m.Closed, m.Saved)
	}
}

func TestAnnouncementsModelEditingDisabled(t *testing.T) {
	m := NewAnnouncementsModel(nil, announcement.Defaults(), false)

	m, _ = m.Update(runes("n"))
	if !errors.Is(m.Err, announcement.ErrEditingDisabled) {
		t.Errorf("new: Err = %v, want ErrEditingDisabled", m.Err)
	}
	m, _ = m.Update(runes("d"))
	if m.confirmDelete {
		t.Error("delete should not ask for confirmation when editing is disabled")
	}
	if !strings.Contains(m.View(), "disabled") {
		t.Error("view should mention that editing is disabled")
	}
}

func TestAnnouncementsModelForm(t *testing.T) {
	m := NewAnnouncementsModel(nil, announcement.Defaults(), true)

	m, _ = m.Update(runes("n"))
	if m.editor.Mode() != announcement.ModeAdd {
		t.Fatalf("mode = %v, want add", m.editor.Mode())
	}

	// Day cycles in place.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.editor.Form.Day != "SELASA" {
		t.Errorf("Day = %q, want SELASA", m.editor.Form.Day)
	}

	// Saving an untitled form fails validation before any request.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Busy || !announcement.IsValidationError(m.Err) {
		t.Errorf("busy=%t err=%v, want validation error", m.Busy, m.Err)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editor.Mode() != announcement.ModeView {
		t.Error("esc should close the form")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.Closed {
		t.Error("esc on the list should close the screen")
	}
}

func TestAnnouncementsDoneMsg(t *testing.T) {
	m := NewAnnouncementsModel(nil, announcement.Defaults(), true)
	m.cursor = 1
	m.Busy = true

	m, _ = m.Update(announcementsDoneMsg{items: announcement.Defaults()[:1]})
	if m.Busy || len(m.Items) != 1 || m.cursor != 0 {
		t.Errorf("busy=%t items=%d cursor=%d", m.Busy, len(m.Items), m.cursor)
	}
}

func TestNewAppModelWithoutClient(t *testing.T) {
	m := NewAppModel(context.Background(), nil)
	if m.CurrentScreen != ScreenDiscovery {
		t.Errorf("CurrentScreen = %s, want discovery", m.CurrentScreen)
	}
}

func TestAppAppliesLoadedRecord(t *testing.T) {
	m := NewAppModel(context.Background(), nil)
	m.CurrentScreen = ScreenPreview

	updated, _ := m.Update(loadedMsg{cfg: settings.Default(), items: announcement.Defaults()})
	m = updated.(AppModel)
	defer m.widgets.stop()

	if !m.Loaded || m.widgets == nil {
		t.Fatal("loaded record should mount the widgets")
	}
	if m.Page.Ticker == nil {
		t.Error("default record has the running text enabled")
	}
	view := m.View()
	if !strings.Contains(view, "Nama Instansi") {
		t.Errorf("preview should show the institution name")
	}

	updated, _ = m.Update(runes("s"))
	m = updated.(AppModel)
	if m.CurrentScreen != ScreenPanel || !m.toggle.Visible() {
		t.Errorf("s should open the panel, screen=%s", m.CurrentScreen)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(AppModel)
	if m.CurrentScreen != ScreenPreview || m.toggle.Visible() {
		t.Errorf("esc should hide the panel, screen=%s", m.CurrentScreen)
	}
}

func TestAppRemoteChanges(t *testing.T) {
	m := NewAppModel(context.Background(), nil)
	m.CurrentScreen = ScreenPreview

	updated, cmd := m.Update(remoteChangeMsg{client: client.NewWithURL("other:8080"), kind: "settings"})
	m = updated.(AppModel)
	if cmd != nil || m.StatusMessage != "" {
		t.Error("a change from a previously selected board should be ignored")
	}

	updated, cmd = m.Update(remoteChangeMsg{kind: "settings"})
	m = updated.(AppModel)
	if cmd == nil {
		t.Error("a change for the current board should reload")
	}
	if !strings.Contains(m.StatusMessage, "settings") {
		t.Errorf("StatusMessage = %q", m.StatusMessage)
	}
}
