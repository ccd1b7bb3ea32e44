package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transientErr() error {
	return &Error{Code: ErrUpstreamStatus, Message: "upstream hiccup", HTTPStatus: 503, Retryable: true}
}

func TestRetryerSucceedsAfterTransientFailures(t *testing.T) {
	r := NewRetryer(4, nil)
	var slept []time.Duration
	r.Sleep = func(d time.Duration) { slept = append(slept, d) }

	calls := 0
	out, err := r.Do(context.Background(), func() (string, error) {
		calls++
		if calls <= 3 {
			return "", transientErr()
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 4, calls)
	require.Len(t, slept, 3)
	for attempt, d := range slept {
		min := time.Duration(1<<uint(attempt)) * time.Second
		assert.GreaterOrEqual(t, d, min, "attempt %d", attempt)
		assert.Less(t, d, min+time.Second, "attempt %d", attempt)
	}
}

func TestRetryerExhaustsCeiling(t *testing.T) {
	r := NewRetryer(4, nil)
	sleeps := 0
	r.Sleep = func(time.Duration) { sleeps++ }

	calls := 0
	_, err := r.Do(context.Background(), func() (string, error) {
		calls++
		return "", transientErr()
	})

	require.Error(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 4, sleeps)
	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, ErrUpstreamStatus, be.Code)
}

func TestRetryerNonRetryableStopsImmediately(t *testing.T) {
	r := NewRetryer(4, nil)
	r.Sleep = func(time.Duration) { t.Fatal("must not sleep on a non-retryable error") }

	calls := 0
	_, err := r.Do(context.Background(), func() (string, error) {
		calls++
		return "", &Error{Code: ErrClientStatus, Message: "bad request", HTTPStatus: 400}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryerUnclassifiedErrorNotRetried(t *testing.T) {
	r := NewRetryer(4, nil)
	calls := 0
	_, err := r.Do(context.Background(), func() (string, error) {
		calls++
		return "", errors.New("plain error")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryerHonorsContextCancel(t *testing.T) {
	r := NewRetryer(4, nil)
	r.Sleep = func(time.Duration) {}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := r.Do(ctx, func() (string, error) {
		calls++
		cancel()
		return "", transientErr()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoffCeiling(t *testing.T) {
	for _, attempt := range []int{4, 5, 10, 100} {
		d := Backoff(attempt)
		assert.GreaterOrEqual(t, d, 16*time.Second)
		assert.Less(t, d, 17*time.Second)
	}
}

func TestBackoffExponentialPhase(t *testing.T) {
	for attempt := 0; attempt < 4; attempt++ {
		d := Backoff(attempt)
		min := time.Duration(1<<uint(attempt)) * time.Second
		assert.GreaterOrEqual(t, d, min)
		assert.Less(t, d, min+time.Second)
	}
}
