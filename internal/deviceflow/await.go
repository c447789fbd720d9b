package deviceflow

import (
	"context"
	"errors"

	"github.com/drrakendu78/unicreate/internal/clock"
)

// Poller is the single-attempt half of the flow.
type Poller interface {
	Poll(ctx context.Context, deviceCode string) (string, error)
}

// Await drives the caller-side poll loop: wait the session interval before
// each attempt, add SlowDownIncrement on slow_down, stop on any terminal outcome.
// Cancelling ctx stops the loop.
func Await(ctx context.Context, p Poller, session Session, wait clock.SleepFunc) (string, error) {
	if wait == nil {
		wait = clock.Sleep
	}
	interval := session.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	for {
		if err := wait(ctx, interval); err != nil {
			return "", err
		}

		token, err := p.Poll(ctx, session.DeviceCode)
		switch {
		case err == nil:
			return token, nil
		case errors.Is(err, ErrAuthorizationPending):
			continue
		case errors.Is(err, ErrSlowDown):
			interval += SlowDownIncrement
			continue
		default:
			return "", err
		}
	}
}
