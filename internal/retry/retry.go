// Package retry wraps fallible network operations with bounded retries
// and exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/sigma-ops/sigma-relay/internal/logger"
)

// Defaults used by NewPolicy.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// Policy retries an operation with exponential backoff between attempts.
// Every error is treated as retryable; the policy makes no attempt to
// classify failures, callers that know better should not route through it.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the sleep before the second attempt; it doubles
	// for each subsequent one.
	BaseDelay time.Duration
	// Log receives a warning per failed attempt.
	Log logger.Logger
}

// NewPolicy returns a Policy with the default attempt count and base delay.
func NewPolicy(log logger.Logger) Policy {
	if log == nil {
		log = logger.Nop()
	}
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Log:         log,
	}
}

// Do runs op, retrying on any error. The backoff sleep blocks the caller
// but returns early if ctx is cancelled. After the final attempt the last
// error is returned unchanged. name identifies the operation in log lines.
func (p Policy) Do(ctx context.Context, name string, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	log := p.Log
	if log == nil {
		log = logger.Nop()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		log.Warnf("%s: attempt %d/%d failed: %v", name, attempt, attempts, lastErr)
		if attempt == attempts {
			break
		}

		delay := p.BaseDelay << (attempt - 1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
