package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrMaxRetriesExceeded is returned when the retry loop ends without a result.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// RetryOptions configures WithRetry.
type RetryOptions struct {
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // delay before retry i is BaseDelay * 2^i

	// OnRetry is called before each backoff sleep.
	OnRetry func(err error, attempt int, delay time.Duration)

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryOptions returns 3 retries starting at one second.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries: 3,
		BaseDelay:  time.Second,
	}
}

// Delay returns the backoff before retry attempt (0-indexed).
func (o RetryOptions) Delay(attempt int) time.Duration {
	return o.BaseDelay * time.Duration(1<<attempt)
}

// WithRetry runs op, retrying transient failures with exponential backoff.
// Non-transient errors and the error of the final attempt are returned unchanged.
func WithRetry[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts RetryOptions) (T, error) {
	var zero T
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		last := attempt == opts.MaxRetries
		if last || !IsTransient(err) {
			return zero, err
		}

		delay := opts.Delay(attempt)
		slog.Warn("retrying after transient failure",
			"attempt", attempt+1, "max_retries", opts.MaxRetries, "delay", delay, "error", err)
		if opts.OnRetry != nil {
			opts.OnRetry(err, attempt+1, delay)
		}

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, ErrMaxRetriesExceeded
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
