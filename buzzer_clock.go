package main

import "time"

// Clock is the monotonic time source of the sequencer.
type Clock interface {
	// Now returns the time elapsed since the clock was created.
	Now() time.Duration
	Sleep(d time.Duration)
}

type monotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a Clock backed by the runtime's monotonic reading.
func NewMonotonicClock() Clock {
	return monotonicClock{start: time.Now()}
}

func (c monotonicClock) Now() time.Duration {
	return time.Since(c.start)
}

func (c monotonicClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
