package backend

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMaxRetries = 4
	maxBackoffSeconds = 16
)

// Retryer reattempts a single network call on transient errors with
// exponential backoff. Only the hosted backend is wrapped in one; the local
// backends fail fast (Ollama) or fail over across endpoints (LM Studio).
type Retryer struct {
	MaxRetries int
	// Sleep is swapped out in tests. Defaults to time.Sleep.
	Sleep  func(time.Duration)
	logger *zap.Logger
}

func NewRetryer(maxRetries int, logger *zap.Logger) *Retryer {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retryer{MaxRetries: maxRetries, Sleep: time.Sleep, logger: logger}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// retry ceiling is exhausted. The returned error is always the most recent
// one from fn.
func (r *Retryer) Do(ctx context.Context, fn func() (string, error)) (string, error) {
	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		if attempt >= r.MaxRetries {
			r.logger.Warn("retry ceiling exhausted",
				zap.Int("attempts", attempt+1),
				zap.Error(err),
			)
			return "", err
		}
		delay := Backoff(attempt)
		r.logger.Debug("retrying backend call",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		r.Sleep(delay)
	}
}

// Backoff returns min(2^attempt, 16) seconds plus sub-second jitter. The
// jitter spreads concurrent clients so they do not retry in lockstep.
func Backoff(attempt int) time.Duration {
	secs := maxBackoffSeconds
	if attempt >= 0 && attempt < 4 {
		secs = 1 << uint(attempt)
	}
	return time.Duration(secs)*time.Second + time.Duration(rand.Float64()*float64(time.Second))
}
