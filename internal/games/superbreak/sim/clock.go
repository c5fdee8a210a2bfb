package sim

import "time"

// Clock turns wall-clock frame timestamps into simulation deltas.
// While paused it keeps moving its reference forward, so resuming never
// applies the time spent paused.
type Clock struct {
	last     time.Time
	started  bool
	maxDelta float64
}

// NewClock creates a clock capping deltas at maxDelta seconds (0 = no cap).
func NewClock(maxDelta float64) *Clock {
	return &Clock{maxDelta: maxDelta}
}

// Step returns the seconds elapsed since the previous call. The first call,
// and every call while paused, returns 0.
func (c *Clock) Step(now time.Time, paused bool) float64 {
	if !c.started || paused {
		c.last = now
		c.started = true
		return 0
	}

	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		return 0
	}
	if c.maxDelta > 0 && dt > c.maxDelta {
		return c.maxDelta
	}
	return dt
}

// Reset forgets the reference time.
func (c *Clock) Reset() {
	c.started = false
}
