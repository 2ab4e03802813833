package driven

import (
	"context"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
)

// HistoryStore persists cycle outcomes so the UI layer can show what the
// relay has done. The relay treats a nil store as "history disabled" and
// a store failure as a logged warning, never a cycle failure.
type HistoryStore interface {
	// RecordCycle persists a finished cycle and its per-file records.
	RecordCycle(ctx context.Context, result *domain.CycleResult) error

	// RecentCycles returns up to limit cycles, newest first, each with
	// its file records.
	RecentCycles(ctx context.Context, limit int) ([]domain.CycleResult, error)

	// Prune removes all but the newest keep cycles.
	Prune(ctx context.Context, keep int) error
}
