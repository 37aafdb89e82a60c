package resilience

import (
	"context"
	"errors"
	"time"
)

type RetryConfig struct {
	// Attempts is the total number of tries. One means no retry.
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
	// Retryable reports whether an error is worth another try. Nil retries
	// everything except an open breaker and context errors.
	Retryable func(err error) bool
}

// Retry calls fn until it succeeds, the attempts run out or ctx is done.
// The delay doubles after each failure, capped at MaxDelay.
func Retry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	if cfg.Retryable == nil {
		cfg.Retryable = defaultRetryable
	}

	delay := cfg.Delay
	var err error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == cfg.Attempts || !cfg.Retryable(err) {
			return err
		}

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
			delay *= 2
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
	return err
}

func defaultRetryable(err error) bool {
	return !errors.Is(err, ErrCircuitOpen) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
