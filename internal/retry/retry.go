// Package retry provides bounded retry with exponential backoff for
// operations that fail transiently, such as page fetches.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/DawsonJay/jam-hot-project/internal/logger"
)

// Default policy used by the scraping pipeline.
const (
	DefaultAttempts     = 3
	DefaultInitialDelay = time.Second
)

// Policy describes how many times to attempt an operation and how long to
// wait between attempts. The delay doubles after each failure.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// InitialDelay is the wait after the first failure.
	InitialDelay time.Duration
}

// DefaultPolicy returns the pipeline's standard policy: three attempts with
// delays of 1s and 2s between them.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:     DefaultAttempts,
		InitialDelay: DefaultInitialDelay,
	}
}

// Do runs fn until it succeeds or the policy is exhausted. The last error is
// returned wrapped with the attempt count. Context cancellation aborts the
// wait between attempts immediately.
func (p Policy) Do(ctx context.Context, log logger.Interface, op string, fn func(context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		log.Warn("operation failed, retrying",
			"operation", op,
			"attempt", attempt,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, lastErr)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, log logger.Interface, op string, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, log, op, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}
