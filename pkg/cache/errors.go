package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is wrapped by every Redis and MongoDB round-trip failure.
var ErrNetwork = errors.New("network error")

// RetryableError flags a transient failure worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable flags err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err or anything it wraps was flagged by Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const retryAttempts = 3

// retryDelay is the wait before the second attempt. It doubles after each
// further failure.
var retryDelay = 250 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, returns an error not flagged
// by Retryable, or has run retryAttempts times. Used when dialing remote
// backends, where the server may still be starting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
}
