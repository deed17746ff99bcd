package retry

import (
	"context"
	"fmt"
)

// Op performs a single charge attempt and reports the gateway's acceptance
// decision. A nil error means the attempt completed, accepted or declined.
type Op func(ctx context.Context) (bool, error)

// Policy bounds an operation to a maximum attempt count, retrying only
// failures the predicate accepts. There is no hidden registry: the policy is
// a value, constructed where it is used.
type Policy struct {
	// MaxAttempts includes the first attempt.
	MaxAttempts int
	// Retryable decides whether a failure is worth another attempt.
	Retryable func(error) bool
}

// Execute runs op until it completes, a non-retryable failure occurs, or the
// attempt budget is spent. Retries happen immediately; a retryable failure on
// the last attempt is returned wrapped in ExhaustedError.
func (p Policy) Execute(ctx context.Context, op Op) (bool, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		accepted, err := op(ctx)
		if err == nil {
			return accepted, nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return false, err
		}
		last = err
	}
	return false, &ExhaustedError{Attempts: attempts, Last: last}
}

// ExhaustedError reports that every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }
