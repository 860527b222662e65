package browser

import (
	"context"
	"math/rand"
	"time"
)

// Delay pauses between page interactions for a uniform random duration in
// [Min, Max]. A zero Max disables it.
type Delay struct {
	Min time.Duration
	Max time.Duration
	// Sleep blocks for d; nil means a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewDelay returns a Delay; swapped bounds are reordered.
func NewDelay(min, max time.Duration) Delay {
	if min > max {
		min, max = max, min
	}
	return Delay{Min: min, Max: max}
}

// Enabled reports whether Wait will ever block.
func (d Delay) Enabled() bool {
	return d.Max > 0
}

// Wait blocks for a random duration and returns it.
func (d Delay) Wait(ctx context.Context) (time.Duration, error) {
	if !d.Enabled() {
		return 0, ctx.Err()
	}
	dur := RandomDuration(d.Min, d.Max)
	sleep := d.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return dur, sleep(ctx, dur)
}

// RandomDelay blocks for a uniform random duration between min and max.
func RandomDelay(ctx context.Context, min, max time.Duration) (time.Duration, error) {
	return NewDelay(min, max).Wait(ctx)
}

// RandomDuration returns a uniform duration in [min, max].
func RandomDuration(min, max time.Duration) time.Duration {
	if min >= max {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
