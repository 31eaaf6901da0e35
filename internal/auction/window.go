// Package auction implements the bidding core: the clock/window gate, the bid
// admission engine, the results compiler, and the read-side catalog. Storage
// and transport live elsewhere; this package only depends on internal/domain.
package auction

import "time"

// Window is the configured auction interval. It is immutable after load.
// Both bounds are exclusive: a bid submitted at exactly the start or end
// instant is rejected. A zero Start means the window is open-ended at the
// start (open from process inception until End).
type Window struct {
	start time.Time
	end   time.Time
}

// NewWindow builds a Window from the configured start and end instants.
func NewWindow(start, end time.Time) Window {
	return Window{start: start, end: end}
}

// Open reports whether bidding is allowed at the given instant. It is a pure
// function with no side effects.
func (w Window) Open(now time.Time) bool {
	if !now.Before(w.end) {
		return false
	}
	if w.start.IsZero() {
		return true
	}
	return now.After(w.start)
}

// End returns the configured end instant.
func (w Window) End() time.Time {
	return w.end
}

// Start returns the configured start instant, which may be zero.
func (w Window) Start() time.Time {
	return w.start
}
