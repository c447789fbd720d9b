// Package clock holds the context-aware sleep shared by every delay in the program.
package clock

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done. Tests substitute one that returns at once.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d unless ctx ends first. A non-positive d only reports ctx's state.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
