package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/papan/internal/announcement"
	"github.com/muurk/papan/internal/discovery"
	"github.com/muurk/papan/internal/panel"
	"github.com/muurk/papan/internal/settings"
	"github.com/muurk/papan/internal/widget"
)

// statusColors maps announcement badge colour names to terminal colours.
var statusColors = map[string]lipgloss.Color{
	"blue":  lipgloss.Color("#3B82F6"),
	"green": lipgloss.Color("#22C55E"),
	"gray":  lipgloss.Color("#9CA3AF"),
	"red":   lipgloss.Color("#EF4444"),
}

// RenderSettings lists the record grouped by settings panel tab. With a
// non-empty tab only that tab is shown.
func RenderSettings(cfg settings.Config, tab string) string {
	var sections []string
	for _, t := range panel.Tabs {
		if tab != "" && panel.ParseTab(tab) != t {
			continue
		}
		lines := []string{SectionTitleStyle.Render(t.Label())}
		for _, f := range panel.FieldsFor(t) {
			lines = append(lines,
				ResultKeyStyle.Width(26).Render("   "+f.Label)+" "+
					ResultValueStyle.Render(settingValue(f, f.Format(cfg))))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

// settingValue shortens embedded images and labels option values.
func settingValue(f panel.Field, value string) string {
	switch f.Kind {
	case panel.KindImage:
		if value == "" {
			return "(none)"
		}
		if rest, ok := strings.CutPrefix(value, "data:"); ok {
			mt, _, _ := strings.Cut(rest, ";")
			return fmt.Sprintf("embedded %s (%d bytes)", mt, len(value))
		}
	case panel.KindList:
		items := strings.Split(value, "\n")
		for i, item := range items {
			items[i] = strconv.Itoa(i+1) + ". " + item
		}
		return strings.Join(items, "\n"+strings.Repeat(" ", 27))
	}
	if len(f.Options) > 0 {
		if label := f.OptionLabel(value); label != value {
			return label + " (" + value + ")"
		}
	}
	return value
}

// RenderAnnouncements renders the agenda as a table.
func RenderAnnouncements(items []announcement.Announcement) string {
	if len(items) == 0 {
		return TroubleshootingItemStyle.Render("  No announcements.")
	}

	header := TableHeaderStyle.Render(fmt.Sprintf("  %-4s %-8s %-24s %-20s %s", "ID", "HARI", "WAKTU", "STATUS", "KEGIATAN"))
	lines := []string{header}
	for _, a := range items {
		badge := lipgloss.NewStyle().
			Foreground(statusColors[a.Status.Color()]).
			Width(20).
			Render(a.Status.Label())
		line := fmt.Sprintf("  %-4d %-8s %-24s ", a.ID, a.Day, a.Time) + badge + " " + a.Title
		lines = append(lines, line)
		if a.Location != "" {
			lines = append(lines, strings.Repeat(" ", 60)+TroubleshootingItemStyle.Render("@ "+a.Location))
		}
		if a.Notes != "" {
			lines = append(lines, strings.Repeat(" ", 60)+TroubleshootingItemStyle.Render(a.Notes))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderBoards renders discovered servers.
func RenderBoards(boards []*discovery.Board) string {
	if len(boards) == 0 {
		return TroubleshootingItemStyle.Render("  No boards found.")
	}
	lines := []string{TableHeaderStyle.Render(fmt.Sprintf("  %-28s %-30s %s", "NAME", "ADDRESS", "VERSION"))}
	for _, b := range boards {
		v := b.Version()
		if v == "" {
			v = "-"
		}
		lines = append(lines, fmt.Sprintf("  %-28s %-30s %s", b.Instance, b.BaseURL(), v))
	}
	return strings.Join(lines, "\n")
}

// StreamParams describes the effective stream for a result box.
func StreamParams(src widget.Source) []Param {
	url := src.URL
	if url == "" {
		url = "(none)"
	}
	origin := "default"
	if src.Overridden {
		origin = "session override"
	}
	return []Param{
		{Key: "URL", Value: url},
		{Key: "Player", Value: src.KindName},
		{Key: "Source", Value: origin},
	}
}
