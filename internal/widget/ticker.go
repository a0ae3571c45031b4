package widget

import (
	"strings"
	"time"

	"github.com/muurk/papan/internal/settings"
)

// Padding placed on both sides of each ticker item.
const ItemPadding = "   "

// Preset is one running text speed.
type Preset struct {
	Speed int
	Label string
	// Delay between marquee steps and Step pixels per step.
	Delay time.Duration
	Step  int
}

// PixelsPerSecond is the effective scroll rate.
func (p Preset) PixelsPerSecond() float64 {
	return float64(p.Step) / p.Delay.Seconds()
}

// Presets lists the running text speeds, fastest first.
var Presets = []Preset{
	{Speed: 30, Label: "Sangat Cepat", Delay: 30 * time.Millisecond, Step: 1},
	{Speed: 60, Label: "Cepat", Delay: 60 * time.Millisecond, Step: 2},
	{Speed: 90, Label: "Sedang", Delay: 90 * time.Millisecond, Step: 3},
	{Speed: 120, Label: "Lambat", Delay: 120 * time.Millisecond, Step: 4},
	{Speed: 150, Label: "Sangat Lambat", Delay: 150 * time.Millisecond, Step: 5},
}

const mediumPreset = 2

// TickerSpeed returns the preset for speed. Unknown values get the medium
// preset.
func TickerSpeed(speed int) Preset {
	for _, p := range Presets {
		if p.Speed == speed {
			return p
		}
	}
	return Presets[mediumPreset]
}

// TickerItems drops whitespace-only items. When nothing remains the
// placeholder is the only item.
func TickerItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{settings.PlaceholderText}
	}
	return out
}

// TickerLine joins the items with their padding into one marquee line.
func TickerLine(items []string) string {
	var b strings.Builder
	for _, item := range TickerItems(items) {
		b.WriteString(ItemPadding)
		b.WriteString(item)
		b.WriteString(ItemPadding)
	}
	return b.String()
}

// Ticker is the horizontal animation state of the running text.
type Ticker struct {
	Preset Preset
	Right  bool
}

// NewTicker creates a ticker for the record's speed and direction.
func NewTicker(speed int, direction string) Ticker {
	return Ticker{Preset: TickerSpeed(speed), Right: direction == "right"}
}

// Offset returns the content's left edge relative to the viewport after
// elapsed time. Moving left, content starts just past the right edge and
// travels until fully off the left edge, then repeats. Moving right mirrors
// that path.
func (t Ticker) Offset(elapsed time.Duration, contentWidth, viewportWidth int) int {
	travelled := 0
	span := contentWidth + viewportWidth
	if span > 0 && t.Preset.Delay > 0 && elapsed > 0 {
		steps := int64(elapsed / t.Preset.Delay)
		travelled = int((steps * int64(t.Preset.Step)) % int64(span))
	}
	if t.Right {
		return -contentWidth + travelled
	}
	return viewportWidth - travelled
}
