package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/layout"
	"github.com/muurk/papan/internal/widget"
)

// The browser board animates in pixels; the preview maps them to cells.
const (
	rowPixels  = 16
	charPixels = 8
)

// statusColors maps badge colour names to terminal colours.
var statusColors = map[string]lipgloss.Color{
	"blue":  lipgloss.Color("#3B82F6"),
	"green": lipgloss.Color("#22C55E"),
	"gray":  lipgloss.Color("#9CA3AF"),
	"red":   lipgloss.Color("#EF4444"),
}

// boardRows is how many announcement rows fit in the board pane.
func boardRows(terminalHeight int, ticker bool) int {
	rows := contentHeight(terminalHeight) - 7
	if ticker {
		rows -= 2
	}
	return max(rows, 1)
}

// renderPreview draws a terminal rendition of the display page.
func renderPreview(page layout.Page, items []announcement.Announcement, stream widget.Source, w *mounted, width, height int) string {
	width = max(width, MinTerminalWidth) - 6

	sections := []string{renderHeader(page, width)}

	paneWidth := width/2 - 2
	rows := boardRows(height, page.Ticker != nil)
	offset := 0
	if w != nil {
		offset = w.scroll.Offset() / rowPixels
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		PaneStyle.Width(paneWidth).Render(renderStream(page, stream)),
		PaneStyle.Width(paneWidth).Render(renderBoard(page, items, offset, rows, paneWidth-2)),
	)
	sections = append(sections, panes)

	if page.Ticker != nil {
		sections = append(sections, renderTicker(page.Ticker, w, width))
	}
	if page.Footer.Text != "" {
		sections = append(sections, SubtitleStyle.Render(page.Footer.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHeader(page layout.Page, width int) string {
	name := page.Header.InstitutionName
	if page.Header.Logo != "" {
		name = "[logo] " + name
	}
	left := PaneTitleStyle.Render(name)
	right := SubtitleStyle.Render(strings.Join(widget.FormatDateTime(time.Now(), page.Header.DateTimeFormat), "  "))
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func renderStream(page layout.Page, src widget.Source) string {
	var b strings.Builder
	b.WriteString(PaneTitleStyle.Render(page.Stream.Title))
	b.WriteString("\n\n")
	if src.URL == "" {
		b.WriteString(SubtitleStyle.Render("No stream configured"))
		return b.String()
	}
	fmt.Fprintf(&b, "%s player\n%s", strings.ToUpper(src.KindName), src.URL)
	if src.Overridden {
		b.WriteString("\n" + ChangedStyle.Render("session override"))
	}
	return b.String()
}

func renderBoard(page layout.Page, items []announcement.Announcement, offset, rows, width int) string {
	var b strings.Builder
	b.WriteString(PaneTitleStyle.Render(page.Board.Title))
	b.WriteString("\n\n")
	if len(items) == 0 {
		b.WriteString(SubtitleStyle.Render("Belum ada agenda"))
		return b.String()
	}
	offset = min(offset, max(len(items)-rows, 0))
	end := min(offset+rows, len(items))
	for i, a := range items[offset:end] {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(boardLine(a, width))
	}
	return b.String()
}

// boardLine renders one announcement as "DAY TIME TITLE @ LOCATION" with a
// status badge, cut to width.
func boardLine(a announcement.Announcement, width int) string {
	badge := lipgloss.NewStyle().
		Foreground(statusColors[a.Status.Color()]).
		Render("● " + a.Status.Label())

	text := fmt.Sprintf("%-7s %s  %s", a.Day, a.Time, a.Title)
	if a.Location != "" {
		text += " @ " + a.Location
	}
	room := width - lipgloss.Width(badge) - 1
	if room < 1 {
		return badge
	}
	runes := []rune(text)
	if len(runes) > room {
		text = string(runes[:max(room-1, 0)]) + "…"
	}
	return text + " " + badge
}

func renderTicker(t *layout.Ticker, w *mounted, width int) string {
	date, clock := "", ""
	offset := 0
	line := []rune(t.Line)

	viewport := width - 2
	if w != nil {
		date, clock = w.clock.Date(), w.clock.Time()
		viewport -= len(date) + len(clock) + 4
		if w.marquee != nil {
			offset = w.marquee.Offset(len(line)*charPixels, max(viewport, 0)*charPixels) / charPixels
		}
	}

	row := TickerStyle.Render(marqueeWindow(t.Line, offset, max(viewport, 0)))
	if date == "" {
		return "\n" + row
	}
	return "\n" + PaneTitleStyle.Render(date) + "  " + row + "  " + PaneTitleStyle.Render(clock)
}

// marqueeWindow returns the width cells of line visible when its first rune
// sits at offset relative to the viewport's left edge.
func marqueeWindow(line string, offset, width int) string {
	if width <= 0 {
		return ""
	}
	cells := []rune(strings.Repeat(" ", width))
	for i, r := range []rune(line) {
		pos := offset + i
		if pos >= 0 && pos < width {
			cells[pos] = r
		}
	}
	return string(cells)
}
