package retry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigma-ops/sigma-relay/internal/logger"
)

func fastPolicy(log logger.Logger) Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Log: log}
}

func TestSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := fastPolicy(nil).Do(context.Background(), "op", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRecoversOnThirdAttempt(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, false)

	calls := 0
	err := fastPolicy(log).Do(context.Background(), "flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// One warning per failed attempt, none for the success.
	assert.Equal(t, 2, strings.Count(buf.String(), "[WARN]"))
}

func TestExhaustionReturnsLastError(t *testing.T) {
	wantErr := errors.New("still broken")
	calls := 0
	err := fastPolicy(nil).Do(context.Background(), "doomed", func() error {
		calls++
		return wantErr
	})
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, wantErr)
}

func TestCancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	p := Policy{MaxAttempts: 5, BaseDelay: time.Hour, Log: nil}
	err := p.Do(ctx, "slow", func() error {
		calls++
		cancel()
		return errors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	p := Policy{MaxAttempts: 0, BaseDelay: time.Millisecond}
	err := p.Do(context.Background(), "op", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestNewPolicyDefaults(t *testing.T) {
	p := NewPolicy(nil)
	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
	assert.Equal(t, DefaultBaseDelay, p.BaseDelay)
	assert.NotNil(t, p.Log)
}
