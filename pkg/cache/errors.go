package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a backend that could not be reached.
	ErrNetwork = errors.New("cache backend unreachable")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("cache closed")
)

// RetryableError marks a transient failure.
type RetryableError struct{ Err error }

// Retryable wraps err so [RetryWithBackoff] will retry it. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped by [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is the first delay of [RetryWithBackoff]; it doubles per attempt.
var Backoff = 200 * time.Millisecond

// RetryWithBackoff calls fn up to three times. Only retryable errors are
// retried; anything else is returned immediately.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := Backoff
	var last error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		last = err
		if !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return last
}
