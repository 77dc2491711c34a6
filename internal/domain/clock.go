package domain

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze run timestamps via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock in JST.
func Now() time.Time {
	return clock.Now().In(JST)
}

// Pause blocks for d on c, returning early with the context's error.
func Pause(ctx context.Context, c clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.After(d):
		return nil
	}
}
