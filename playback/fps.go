package playback

import (
	"time"
)

// FrameRate measures the instantaneous frame rate from the wall clock time
// between consecutive frames.  No smoothing is applied.
type FrameRate struct {
	// now returns the current time
	now func() time.Time
	// last is the time of the previous tick
	last time.Time
	// fps is the most recent frame rate calculated
	fps float64
}

// NewFrameRate returns a FrameRate using the system clock, the first tick is
// measured from the time of creation
func NewFrameRate() *FrameRate {
	return NewFrameRateWithClock(time.Now)
}

// NewFrameRateWithClock returns a FrameRate reading time from now
func NewFrameRateWithClock(now func() time.Time) *FrameRate {
	return &FrameRate{
		now:  now,
		last: now(),
	}
}

// Tick marks a frame as presented and returns the frame rate calculated from
// the whole milliseconds elapsed since the previous tick.  An elapsed time of
// zero or less gives a frame rate of 0.
func (f *FrameRate) Tick() float64 {

	now := f.now()
	ms := now.Sub(f.last).Milliseconds()
	f.last = now

	if ms > 0 {
		f.fps = 1000.0 / float64(ms)
	} else {
		f.fps = 0
	}

	return f.fps
}

// FPS returns the frame rate calculated on the last tick
func (f *FrameRate) FPS() float64 {
	return f.fps
}
