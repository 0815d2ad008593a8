package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Constant returns a fixed-interval back-off, used by the session loop
// between reconnect attempts.
func Constant(interval time.Duration) backoff.BackOff {
	return backoff.NewConstantBackOff(interval)
}

func ExponentialBackoff(initialInterval, maxInterval time.Duration, multiplier float64) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initialInterval
	exp.MaxInterval = maxInterval
	exp.Multiplier = multiplier
	exp.MaxElapsedTime = 0
	return exp
}
