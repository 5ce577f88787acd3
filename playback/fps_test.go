package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameRateTick(t *testing.T) {

	tests := []struct {
		elapsed time.Duration
		fps     float64
	}{
		{0, 0},
		{500 * time.Millisecond, 2},
		{1000 * time.Millisecond, 1},
		{40 * time.Millisecond, 25},
		// partial milliseconds are truncated
		{999 * time.Microsecond, 0},
		// clock moved backwards
		{-10 * time.Millisecond, 0},
	}

	for _, tc := range tests {
		now := time.Unix(100, 0)
		rate := NewFrameRateWithClock(func() time.Time { return now })

		now = now.Add(tc.elapsed)

		got := rate.Tick()
		assert.InDelta(t, tc.fps, got, 1e-9, "elapsed %v", tc.elapsed)
		assert.InDelta(t, tc.fps, rate.FPS(), 1e-9, "elapsed %v", tc.elapsed)
	}
}

func TestFrameRateConsecutiveTicks(t *testing.T) {

	now := time.Unix(100, 0)
	rate := NewFrameRateWithClock(func() time.Time { return now })

	now = now.Add(100 * time.Millisecond)
	assert.InDelta(t, 10.0, rate.Tick(), 1e-9)

	// measured from the previous tick, not from creation
	now = now.Add(250 * time.Millisecond)
	assert.InDelta(t, 4.0, rate.Tick(), 1e-9)

	assert.InDelta(t, 0.0, rate.Tick(), 1e-9)
}
