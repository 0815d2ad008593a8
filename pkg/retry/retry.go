// Package retry wraps cenkalti/backoff with the policies used by the
// capture pipeline: constant back-off for stream reconnects and bounded
// exponential retry for one-shot remote calls such as place lookups.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	pkgerrors "streamcap/pkg/errors"
)

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	}
}

// Retry runs fn until it succeeds, the policy is exhausted, or fn returns a
// fatal error.
func Retry(ctx context.Context, policy Policy, fn func() error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}

	var b backoff.BackOff = ExponentialBackoff(
		policy.InitialInterval,
		policy.MaxInterval,
		policy.Multiplier,
	)
	b = backoff.WithContext(b, ctx)
	b = backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1))

	operation := func() error {
		err := fn()
		if err == nil {
			return nil
		}

		if pkgerrors.IsFatal(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, b)
}
