package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls how often and how patiently work is retried.
type Policy struct {
	// MaxAttempts counts the first try; 1 disables retries.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// ShouldRetry defaults to IsTransient.
	ShouldRetry func(err error) bool
	// OnRetry runs before each backoff sleep.
	OnRetry func(attempt int, err error)
}

// NewPolicy builds a policy from config values. Non-positive values fall
// back to 3 attempts starting at 500ms, capped at 30s.
func NewPolicy(maxAttempts, initialBackoffMs int) Policy {
	p := Policy{
		MaxAttempts:    maxAttempts,
		InitialBackoff: time.Duration(initialBackoffMs) * time.Millisecond,
	}
	return p.withDefaults()
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = 500 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 30 * time.Second
	}
	if p.ShouldRetry == nil {
		p.ShouldRetry = IsTransient
	}
	return p
}

// Do runs fn until it succeeds, returns a non-retryable error, exhausts the
// policy, or ctx is done. The last error is returned on failure.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()

	var zero T
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !p.ShouldRetry(err) || attempt == p.MaxAttempts-1 {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}

		timer := time.NewTimer(backoff(attempt, p))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// backoff doubles from InitialBackoff per attempt, caps at MaxBackoff and
// adds up to ±20% jitter.
func backoff(attempt int, p Policy) time.Duration {
	delay := p.InitialBackoff << attempt
	if delay <= 0 || delay > p.MaxBackoff {
		delay = p.MaxBackoff
	}
	jitter := (rand.Float64()*0.4 - 0.2) * float64(delay)
	return delay + time.Duration(jitter)
}

// LogRetry returns an OnRetry callback that logs each attempt for path.
func LogRetry(path string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("resilience: retrying file",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
