package widget

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/papan/internal/schedule"
	"github.com/muurk/papan/internal/settings"
)

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=7aiJ0WrNhaE", "https://www.youtube.com/embed/7aiJ0WrNhaE"},
		{"https://youtube.com/watch?v=abc123&t=42", "https://www.youtube.com/embed/abc123"},
		{"https://m.youtube.com/watch?feature=share&v=xyz", "https://www.youtube.com/embed/xyz"},
		{"https://youtu.be/abc123?si=tracking", "https://www.youtube.com/embed/abc123"},
		{"https://www.youtube.com/shorts/sh0rt", "https://www.youtube.com/embed/sh0rt"},
		{"https://www.youtube.com/live/L1ve?feature=x", "https://www.youtube.com/embed/L1ve"},
		{"https://www.youtube.com/watch?list=PL1", "https://www.youtube.com/watch?list=PL1"},
		{"https://youtu.be/", "https://youtu.be/"},
		{"https://example.com/live/stream.m3u8", "https://example.com/live/stream.m3u8"},
		{"https://www.youtube.com/embed/already", "https://www.youtube.com/embed/already"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := EmbedURL(tt.in); got != tt.want {
				t.Errorf("EmbedURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStreamKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"https://cdn.example.com/tv/index.m3u8", KindHLS},
		{"https://cdn.example.com/tv/INDEX.M3U8?token=1", KindHLS},
		{"https://cdn.example.com/tv/index.mp4?x=.m3u8", KindEmbed},
		{"https://www.youtube.com/embed/abc", KindEmbed},
	}

	for _, tt := range tests {
		if got := StreamKind(tt.in); got != tt.want {
			t.Errorf("StreamKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStreamOverride(t *testing.T) {
	s := NewStream("https://youtu.be/first")

	if got := s.Source(); got.URL != "https://www.youtube.com/embed/first" || got.Overridden {
		t.Errorf("initial Source() = %+v", got)
	}

	if s.Override("   ") {
		t.Error("blank override should be a no-op")
	}
	if s.Source().Overridden {
		t.Error("blank override changed the source")
	}

	if !s.Override("https://cdn.example.com/live.m3u8") {
		t.Fatal("Override() returned false")
	}
	src := s.Source()
	if src.Kind != KindHLS || !src.Overridden || src.KindName != "hls" {
		t.Errorf("overridden Source() = %+v", src)
	}

	if s.SetDefault("https://youtu.be/first") {
		t.Error("same default reported as a change")
	}
	if !s.Source().Overridden {
		t.Error("re-applying the same default should keep the override")
	}

	if !s.SetDefault("https://youtu.be/second") {
		t.Error("new default not reported as a change")
	}
	if got := s.Source(); got.Overridden || got.URL != "https://www.youtube.com/embed/second" {
		t.Errorf("changed default should clear the override, got %+v", got)
	}
}

func TestStreamClear(t *testing.T) {
	s := NewStream("https://example.com/a")
	if s.Clear() {
		t.Error("Clear() without override returned true")
	}
	s.Override("https://example.com/b")
	if !s.Clear() || s.Source().URL != "https://example.com/a" {
		t.Error("Clear() did not restore the default")
	}
}

func TestBoardScrollTables(t *testing.T) {
	tests := []struct {
		speed int
		delay time.Duration
		step  int
	}{
		{1, 200 * time.Millisecond, 1},
		{2, 120 * time.Millisecond, 2},
		{3, 80 * time.Millisecond, 3},
		{4, 40 * time.Millisecond, 4},
		{0, 120 * time.Millisecond, 2},
		{9, 120 * time.Millisecond, 2},
	}

	for _, tt := range tests {
		if got := BoardScrollDelay(tt.speed); got != tt.delay {
			t.Errorf("BoardScrollDelay(%d) = %v, want %v", tt.speed, got, tt.delay)
		}
		if got := BoardScrollStep(tt.speed); got != tt.step {
			t.Errorf("BoardScrollStep(%d) = %d, want %d", tt.speed, got, tt.step)
		}
	}
}

func TestScrollerWraps(t *testing.T) {
	s := NewScroller(4, "up", 10)

	want := []int{4, 8, 0, 4}
	for i, w := range want {
		s.Advance()
		if got := s.Offset(); got != w {
			t.Errorf("step %d: Offset() = %d, want %d", i, got, w)
		}
	}
}

func TestScrollerDownMirrors(t *testing.T) {
	s := NewScroller(3, "down", 10)
	if got := s.Offset(); got != 0 {
		t.Errorf("initial Offset() = %d, want 0", got)
	}
	s.Advance()
	if got := s.Offset(); got != 7 {
		t.Errorf("Offset() = %d, want 7", got)
	}
}

func TestScrollerWrapsOnExactExtent(t *testing.T) {
	tests := []struct {
		name string
		down bool
		want []int
	}{
		{"up", false, []int{5, 0, 5, 0}},
		{"down", true, []int{5, 0, 5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Scroller{Step: 5, Extent: 10, Down: tt.down}
			for i, w := range tt.want {
				s.Advance()
				if got := s.Offset(); got != w {
					t.Errorf("step %d: Offset() = %d, want %d", i, got, w)
				}
				if got := s.Offset(); got >= s.Extent {
					t.Errorf("step %d: Offset() = %d reached the extent", i, got)
				}
			}
		})
	}
}

func TestTickerSpeed(t *testing.T) {
	tests := []struct {
		speed int
		step  int
		delay time.Duration
	}{
		{30, 1, 30 * time.Millisecond},
		{60, 2, 60 * time.Millisecond},
		{90, 3, 90 * time.Millisecond},
		{120, 4, 120 * time.Millisecond},
		{150, 5, 150 * time.Millisecond},
		{45, 3, 90 * time.Millisecond},
		{0, 3, 90 * time.Millisecond},
	}

	for _, tt := range tests {
		p := TickerSpeed(tt.speed)
		if p.Step != tt.step || p.Delay != tt.delay {
			t.Errorf("TickerSpeed(%d) = %+v, want step %d delay %v", tt.speed, p, tt.step, tt.delay)
		}
	}
}

func TestTickerItems(t *testing.T) {
	got := TickerItems([]string{" ", "Satu", "\t", "Dua"})
	if strings.Join(got, "|") != "Satu|Dua" {
		t.Errorf("TickerItems() = %q", got)
	}

	got = TickerItems([]string{"", "  "})
	if len(got) != 1 || got[0] != settings.PlaceholderText {
		t.Errorf("TickerItems(blank) = %q, want placeholder", got)
	}
}

func TestTickerLinePadding(t *testing.T) {
	got := TickerLine([]string{"A", "B"})
	want := ItemPadding + "A" + ItemPadding + ItemPadding + "B" + ItemPadding
	if got != want {
		t.Errorf("TickerLine() = %q, want %q", got, want)
	}
}

func TestTickerOffset(t *testing.T) {
	left := NewTicker(90, "left")
	right := NewTicker(90, "right")

	// 90 preset: 3px every 90ms.
	tests := []struct {
		name    string
		tk      Ticker
		elapsed time.Duration
		want    int
	}{
		{"left start", left, 0, 100},
		{"left moved", left, 900 * time.Millisecond, 70},
		{"left wraps", left, 90 * time.Millisecond * 50, 100},
		{"right start", right, 0, -50},
		{"right moved", right, 900 * time.Millisecond, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tk.Offset(tt.elapsed, 50, 100); got != tt.want {
				t.Errorf("Offset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatClockAndDate(t *testing.T) {
	ts := time.Date(2025, time.May, 5, 7, 3, 9, 0, time.UTC)

	if got := FormatClock(ts); got != "07:03:09" {
		t.Errorf("FormatClock() = %q", got)
	}
	if got := FormatDate(ts); got != "Senin, 05 Mei 2025" {
		t.Errorf("FormatDate() = %q", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, time.August, 17, 10, 0, 5, 0, time.UTC)

	tests := []struct {
		format string
		want   string
	}{
		{"short", "17/08/2024|10:00:05"},
		{"long", "Sabtu|17 Agustus 2024|10:00:05 WIB"},
		{"default", "Sabtu|17 Agustus 2024|10:00:05"},
		{"unknown", "Sabtu|17 Agustus 2024|10:00:05"},
	}

	for _, tt := range tests {
		if got := strings.Join(FormatDateTime(ts, tt.format), "|"); got != tt.want {
			t.Errorf("FormatDateTime(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestClockMount(t *testing.T) {
	var calls atomic.Int32
	ts := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(func() time.Time { return ts.Add(time.Duration(calls.Load()) * time.Second) })

	g := schedule.NewGroup(context.Background())
	c.Mount(g, func() { calls.Add(1) })

	if c.Date() != "Rabu, 01 Januari 2025" {
		t.Errorf("Date() = %q", c.Date())
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	g.Stop()

	if calls.Load() < 2 {
		t.Fatal("clock did not refresh")
	}
	if c.Time() == "00:00:00" {
		t.Error("Time() not refreshed")
	}
}

func TestBoardScrollMount(t *testing.T) {
	b := NewBoardScroll(4, "up", 1000)
	g := schedule.NewGroup(context.Background())
	b.Mount(g, nil)

	deadline := time.Now().Add(2 * time.Second)
	for b.Offset() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	g.Stop()

	if b.Offset() == 0 {
		t.Error("board did not scroll")
	}
}
