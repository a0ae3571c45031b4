package widget

import "time"

// BoardScrollDelay maps the announcement scroll speed (1 slow .. 4 very
// fast) to the delay between steps. Other values use the medium delay.
func BoardScrollDelay(speed int) time.Duration {
	switch speed {
	case 1:
		return 200 * time.Millisecond
	case 2:
		return 120 * time.Millisecond
	case 3:
		return 80 * time.Millisecond
	case 4:
		return 40 * time.Millisecond
	default:
		return 120 * time.Millisecond
	}
}

// BoardScrollStep is the distance moved per step, in pixels (or terminal
// rows when scaled by the caller).
func BoardScrollStep(speed int) int {
	if speed >= 1 && speed <= 4 {
		return speed
	}
	return 2
}

// Scroller tracks the vertical offset of the announcement list.
type Scroller struct {
	Step   int
	Extent int
	Down   bool

	offset int
}

// NewScroller creates a scroller for the given speed and direction.
func NewScroller(speed int, direction string, extent int) *Scroller {
	return &Scroller{
		Step:   BoardScrollStep(speed),
		Extent: extent,
		Down:   direction == "down",
	}
}

// Advance moves one step. When the offset reaches the extent it wraps to
// zero.
func (s *Scroller) Advance() {
	s.offset += s.Step
	if s.offset >= s.Extent {
		s.offset = 0
	}
}

// Offset returns the distance scrolled. Scrolling down mirrors the offset
// so content enters from the top.
func (s *Scroller) Offset() int {
	if s.Down && s.Extent > 0 {
		return (s.Extent - s.offset) % s.Extent
	}
	return s.offset
}

// Resize changes the extent, wrapping the offset if it falls outside.
func (s *Scroller) Resize(extent int) {
	s.Extent = extent
	if s.offset >= extent {
		s.offset = 0
	}
}
