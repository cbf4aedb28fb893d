package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls capped exponential retry with additive jitter.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt, so a call
	// runs at most MaxRetries+1 times. Default: 2.
	MaxRetries int

	// BaseDelay is the delay before the first retry. Default: 1s.
	BaseDelay time.Duration

	// MaxDelay caps the computed delay, jitter included. Default: 10s.
	MaxDelay time.Duration

	// MaxJitter bounds the random delay added to every backoff. Default: 1s.
	// A negative value disables jitter.
	MaxJitter time.Duration

	// ShouldRetry optionally overrides the default transient-error check.
	ShouldRetry func(err error) bool

	// OnRetry is called before each retry sleep with the retry number
	// (starting at 1), the error and the chosen delay.
	OnRetry func(retry int, err error, delay time.Duration)
}

// DefaultRetryConfig returns the retry budget used for provider calls.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
		MaxJitter:  time.Second,
	}
}

// Attempts returns the total number of calls the config allows.
func (c RetryConfig) Attempts() int {
	return applyDefaults(c).MaxRetries + 1
}

// Do runs fn until it succeeds, returns a non-retryable error, exhausts the
// budget or ctx is done. The last error is returned.
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for functions that return a value. A provider's Retry-After
// hint lengthens the backoff, still capped at MaxDelay.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = applyDefaults(cfg)
	retryable := cfg.ShouldRetry
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	for retry := 0; ; retry++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		if retry == cfg.MaxRetries || ctx.Err() != nil || !retryable(err) {
			return zero, err
		}

		delay := min(max(Backoff(retry, cfg), RetryAfter(err)), cfg.MaxDelay)
		if cfg.OnRetry != nil {
			cfg.OnRetry(retry+1, err, delay)
		}
		if !sleep(ctx, delay) {
			return zero, err
		}
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func applyDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.MaxJitter == 0 {
		cfg.MaxJitter = time.Second
	}
	return cfg
}

// Backoff returns BaseDelay doubled per attempt plus up to MaxJitter of
// random delay, capped at MaxDelay.
func Backoff(attempt int, cfg RetryConfig) time.Duration {
	delay := cfg.MaxDelay
	if attempt < 32 {
		delay = min(cfg.BaseDelay<<attempt, cfg.MaxDelay)
		if delay <= 0 {
			delay = cfg.MaxDelay
		}
	}
	if cfg.MaxJitter > 0 {
		delay += rand.N(cfg.MaxJitter)
	}
	return min(delay, cfg.MaxDelay)
}

// RetryLogger returns an OnRetry callback that logs each retry.
func RetryLogger(provider, operation string) func(int, error, time.Duration) {
	return func(retry int, err error, delay time.Duration) {
		zap.L().Warn("retrying provider call",
			zap.String("provider", provider),
			zap.String("operation", operation),
			zap.Int("retry", retry),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}
}
