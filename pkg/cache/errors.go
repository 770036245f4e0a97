package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned when a shared backend cannot be reached.
var ErrNetwork = errors.New("cache backend unreachable")

// RetryableError marks a failure worth retrying, such as a refused
// connection while the backend is still starting.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry schedule for RetryWithBackoff.
var (
	retryAttempts = 3
	retryDelay    = time.Second
)

// RetryWithBackoff calls fn up to 3 times, doubling the delay from one second
// between attempts. Only errors wrapped with [Retryable] are retried.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var lastErr error

	for i := 0; i < retryAttempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < retryAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
