// Package resilience provides bounded retry with exponential backoff for
// imagery provider calls. A tile fetch that exhausts its retries is
// skipped by the orchestrator, never fatal for the run.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig bounds the retry loop for one provider call.
type RetryConfig struct {
	// Attempts is the total number of tries including the first.
	Attempts int
	// BaseDelay is the backoff before the first retry; it doubles per
	// attempt up to MaxDelay, with ±25% jitter.
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryConfig suits the rate-limited Process API: three tries with
// a one second base delay.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:  3,
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
	}
}

// DoVal runs fn until it succeeds, the error is permanent, the context is
// canceled, or the attempts are exhausted. Only transient provider errors
// are retried.
func DoVal[T any](ctx context.Context, cfg RetryConfig, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(err) {
			return zero, lastErr
		}
		if attempt == cfg.Attempts-1 {
			break
		}

		zap.L().Warn("retrying provider call",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff(attempt, cfg))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// backoff doubles the base delay per attempt, capped at MaxDelay, with
// ±25% jitter to avoid thundering-herd retries across tile workers.
func backoff(attempt int, cfg RetryConfig) time.Duration {
	d := float64(cfg.BaseDelay) * math.Pow(2, float64(attempt))
	if max := float64(cfg.MaxDelay); cfg.MaxDelay > 0 && d > max {
		d = max
	}
	d += (rand.Float64()*0.5 - 0.25) * d
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
