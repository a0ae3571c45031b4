package widget

import (
	"sync"
	"time"

	"github.com/muurk/papan/internal/schedule"
)

// Clock is the running text's date and time cell. The date is computed once
// when mounted; the time refreshes every ClockInterval.
type Clock struct {
	now func() time.Time

	mu   sync.RWMutex
	date string
	time string
}

// NewClock creates a clock reading now (time.Now when nil).
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Mount starts the refresh timer on g. notify runs after every refresh.
func (c *Clock) Mount(g *schedule.Group, notify func()) {
	t := c.now()
	c.mu.Lock()
	c.date = FormatDate(t)
	c.time = FormatClock(t)
	c.mu.Unlock()

	g.Every(ClockInterval, func() {
		c.mu.Lock()
		c.time = FormatClock(c.now())
		c.mu.Unlock()
		if notify != nil {
			notify()
		}
	})
}

// Date returns the date computed at mount time.
func (c *Clock) Date() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.date
}

// Time returns the last refreshed time.
func (c *Clock) Time() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.time
}

// BoardScroll animates the announcement list.
type BoardScroll struct {
	mu       sync.Mutex
	speed    int
	scroller *Scroller
}

// NewBoardScroll creates a scroll animation for the board settings.
func NewBoardScroll(speed int, direction string, extent int) *BoardScroll {
	return &BoardScroll{speed: speed, scroller: NewScroller(speed, direction, extent)}
}

// Mount advances the scroll every BoardScrollDelay(speed).
func (b *BoardScroll) Mount(g *schedule.Group, notify func()) {
	g.Every(BoardScrollDelay(b.speed), func() {
		b.mu.Lock()
		b.scroller.Advance()
		b.mu.Unlock()
		if notify != nil {
			notify()
		}
	})
}

// Offset returns the current offset.
func (b *BoardScroll) Offset() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scroller.Offset()
}

// Resize updates the scrollable extent.
func (b *BoardScroll) Resize(extent int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scroller.Resize(extent)
}

// Marquee animates the running text from its mount time.
type Marquee struct {
	Ticker Ticker

	now     func() time.Time
	mu      sync.RWMutex
	started time.Time
}

// NewMarquee creates a marquee for the record's speed and direction.
func NewMarquee(speed int, direction string, now func() time.Time) *Marquee {
	if now == nil {
		now = time.Now
	}
	return &Marquee{Ticker: NewTicker(speed, direction), now: now}
}

// Mount records the start time and calls notify once per marquee step.
func (m *Marquee) Mount(g *schedule.Group, notify func()) {
	m.mu.Lock()
	m.started = m.now()
	m.mu.Unlock()

	if notify != nil {
		g.Every(m.Ticker.Preset.Delay, notify)
	}
}

// Offset returns the content position for the current time.
func (m *Marquee) Offset(contentWidth, viewportWidth int) int {
	m.mu.RLock()
	started := m.started
	m.mu.RUnlock()
	return m.Ticker.Offset(m.now().Sub(started), contentWidth, viewportWidth)
}
