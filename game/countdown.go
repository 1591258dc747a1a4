package game

import "time"

// Clock is a source of monotonic wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Countdown measures whole seconds elapsed between polls without losing the
// sub-second remainder.
type Countdown struct {
	clock      Clock
	lastUpdate time.Time
}

// NewCountdown returns a countdown reading c, reset to the current time.
func NewCountdown(c Clock) *Countdown {
	if c == nil {
		c = SystemClock{}
	}
	return &Countdown{clock: c, lastUpdate: c.Now()}
}

// Reset makes the current time the new reference point.
func (c *Countdown) Reset() {
	c.lastUpdate = c.clock.Now()
}

// Elapsed returns the whole seconds since the reference point and advances
// the reference point by exactly that many seconds.
func (c *Countdown) Elapsed() int {
	secs := int(c.clock.Now().Sub(c.lastUpdate) / time.Second)
	if secs <= 0 {
		return 0
	}
	c.lastUpdate = c.lastUpdate.Add(time.Duration(secs) * time.Second)
	return secs
}
