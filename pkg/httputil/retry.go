package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure: a dropped connection or a 5xx
// response. Only these are repeated by [Retry].
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy says how often a fetch is attempted. The zero Policy makes a single
// attempt.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// SingleAttempt never repeats a fetch. Metadata documents are fetched this
// way: a failed load is reported and left for the user to retry.
var SingleAttempt = Policy{Attempts: 1}

// Retry runs fn until it succeeds, fails with an error that is not a
// [RetryableError], or p.Attempts runs are used up. The delay doubles after
// every failed run. It returns the last error, or ctx.Err() when ctx ends
// while waiting.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	attempts, delay := max(p.Attempts, 1), p.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
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
	return err
}

// IsTransient reports whether err, or an error it wraps, is a
// [RetryableError].
func IsTransient(err error) bool {
	return errors.As(err, new(*RetryableError))
}
