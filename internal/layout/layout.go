package layout

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/muurk/papan/internal/settings"
	"github.com/muurk/papan/internal/widget"
)

// Page is the presentation derived from one configuration record.
type Page struct {
	Background Background
	Header     Header
	Stream     settings.StreamView
	Board      Board
	// Ticker is nil when the running text is disabled.
	Ticker *Ticker
	Footer settings.FooterView
}

// Background is the page's base colour plus an optional image layer.
type Background struct {
	Class string
	// Image is nil unless an image is enabled and set.
	Image *ImageLayer
}

// ImageLayer is a cover/center/no-repeat background image with a darkening,
// blurred overlay.
type ImageLayer struct {
	URL           string
	OverlayColor  string
	OverlayFilter string
}

// Header is the institution banner.
type Header struct {
	settings.HeaderView
	// Logo is empty unless the logo is enabled and set.
	Logo string
}

// Board is the announcement widget configuration with its timing resolved.
type Board struct {
	settings.BoardView
	ScrollDelayMS int
	ScrollStep    int
}

// Ticker is the running text row.
type Ticker struct {
	settings.RunningTextView
	Line    string
	Shown   []string
	DelayMS int
	Step    int
	PxPerS  float64
	Reverse bool
}

// Compose derives a Page from cfg. It reads nothing else.
func Compose(cfg settings.Config) Page {
	p := Page{
		Background: composeBackground(cfg.Background()),
		Header:     composeHeader(cfg.Header()),
		Stream:     cfg.Stream(),
		Board:      composeBoard(cfg.Board()),
		Footer:     cfg.Footer(),
	}
	if rt := cfg.RunningText(); rt.Enabled {
		p.Ticker = composeTicker(rt)
	}
	return p
}

func composeBackground(v settings.BackgroundView) Background {
	bg := Background{Class: v.Color}
	if v.UseImage && v.ImageURL != "" {
		bg.Image = &ImageLayer{
			URL:           v.ImageURL,
			OverlayColor:  "rgba(0, 0, 0, " + strconv.FormatFloat(v.Opacity, 'f', -1, 64) + ")",
			OverlayFilter: "blur(" + strconv.FormatFloat(v.Blur, 'f', -1, 64) + "px)",
		}
	}
	return bg
}

func composeHeader(v settings.HeaderView) Header {
	h := Header{HeaderView: v}
	if v.ShowLogo && v.LogoURL != "" {
		h.Logo = v.LogoURL
	}
	return h
}

func composeBoard(v settings.BoardView) Board {
	return Board{
		BoardView:     v,
		ScrollDelayMS: int(widget.BoardScrollDelay(v.ScrollSpeed).Milliseconds()),
		ScrollStep:    widget.BoardScrollStep(v.ScrollSpeed),
	}
}

func composeTicker(v settings.RunningTextView) *Ticker {
	preset := widget.TickerSpeed(v.ScrollSpeed)
	return &Ticker{
		RunningTextView: v,
		Line:            widget.TickerLine(v.Items),
		Shown:           widget.TickerItems(v.Items),
		DelayMS:         int(preset.Delay.Milliseconds()),
		Step:            preset.Step,
		PxPerS:          preset.PixelsPerSecond(),
		Reverse:         v.Direction == "right",
	}
}

// String summarises the page for logs.
func (p Page) String() string {
	return fmt.Sprintf("Page{%q bg=%s image=%t ticker=%t}",
		p.Header.InstitutionName, p.Background.Class, p.Background.Image != nil, p.Ticker != nil)
}

// Toggle owns the Settings Panel visibility.
type Toggle struct {
	mu      sync.Mutex
	visible bool
}

// Flip shows a hidden panel or hides a visible one and returns the new
// state.
func (t *Toggle) Flip() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = !t.visible
	return t.visible
}

// Hide closes the panel.
func (t *Toggle) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
}

// Visible reports whether the panel is shown.
func (t *Toggle) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}
