package driving

import (
	"context"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
)

// Relay drives the transfer pipeline: one-shot cycles and the polling
// loop around them.
type Relay interface {
	// RunOnce performs a single cycle: list, filter, download, upload,
	// archive, cleanup. Per-file failures are contained in the result;
	// the returned error is non-nil only for cycle-level failures such
	// as an unreachable sink.
	RunOnce(ctx context.Context) (*domain.CycleResult, error)

	// Run repeats RunOnce until ctx is cancelled, sleeping the poll
	// interval between cycles in one-second increments. Cycle-level
	// errors are logged and the loop continues; Run itself returns only
	// on cancellation.
	Run(ctx context.Context) error

	// Events exposes the relay's status event stream. The channel is
	// buffered; events are dropped rather than blocking the worker when
	// no consumer keeps up.
	Events() <-chan domain.Event
}
