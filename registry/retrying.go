package registry

import (
	"context"
	"errors"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
)

const defaultRetryDelay = 200 * time.Millisecond

// Retrying retries endpoint resolution of the underlying resolver
type Retrying struct {
	Resolver
	attempts int
	delay    time.Duration
	clock    clock.Clock
}

// NewRetrying creates retrying resolver, retries is number of additional attempts
func NewRetrying(resolver Resolver, retries int, delay time.Duration) *Retrying {
	if delay == 0 {
		delay = defaultRetryDelay
	}
	return &Retrying{Resolver: resolver, attempts: retries + 1, delay: delay, clock: clock.WallClock}
}

func (r *Retrying) ResolveEndpoint(ctx context.Context, service string) (*Endpoint, error) {
	var ret *Endpoint
	var lastErr error
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			var err error
			ret, err = r.Resolver.ResolveEndpoint(ctx, service)
			lastErr = err
			return err
		},
		IsFatalError: func(err error) bool {
			var unsupported *UnsupportedError
			return errors.As(err, &unsupported) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		Attempts: r.attempts,
		Delay:    r.delay,
		Clock:    r.clock,
		Stop:     ctx.Done(),
	})
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return ret, nil
}
