package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "streamcap/pkg/errors"
)

func testPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      1.0,
	}
}

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), testPolicy(), func() error {
		calls++
		if calls < 3 {
			return errors.New("temporarily unavailable")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsPolicy(t *testing.T) {
	calls := 0
	failure := errors.New("still down")
	err := Retry(context.Background(), testPolicy(), func() error {
		calls++
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnFatalError(t *testing.T) {
	calls := 0
	cause := errors.New("credentials rejected")
	err := Retry(context.Background(), testPolicy(), func() error {
		calls++
		return pkgerrors.NewFatalError(cause)
	})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, calls, "fatal errors must not be retried")
}
