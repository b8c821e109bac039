package store

import (
	"context"
	"errors"
	"time"
)

// transientError marks a backend connect failure worth retrying. An
// orchestrated startup often races the backing container, so the first
// ping regularly fails even though the backend is seconds from ready.
type transientError struct{ err error }

// transient wraps err for retry; nil passes through.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// retryConnect runs fn up to three times, doubling the pause after each
// transient failure. Non-transient errors and context cancellation end
// the attempts immediately.
func retryConnect(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
