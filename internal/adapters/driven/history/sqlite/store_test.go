package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleCycle(started time.Time) *domain.CycleResult {
	return &domain.CycleResult{
		ID:        fmt.Sprintf("cycle-%d", started.UnixNano()),
		StartedAt: started,
		EndedAt:   started.Add(5 * time.Second),
		Uploaded:  1,
		Files: []domain.FileRecord{
			{ID: "f1", Name: "a.csv", MimeType: "text/csv", Size: 512, Status: domain.StatusArchived},
			{ID: "f2", Name: "b.csv", Status: domain.StatusFailed, ErrorMessage: "upload refused"},
		},
	}
}

func TestRecordAndReadBack(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	cycle := sampleCycle(time.Now())
	require.NoError(t, store.RecordCycle(ctx, cycle))

	cycles, err := store.RecentCycles(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cycles, 1)

	got := cycles[0]
	assert.Equal(t, cycle.ID, got.ID)
	assert.Equal(t, 1, got.Uploaded)
	require.Len(t, got.Files, 2)
	// Listing order is preserved.
	assert.Equal(t, "a.csv", got.Files[0].Name)
	assert.Equal(t, domain.StatusArchived, got.Files[0].Status)
	assert.Equal(t, "upload refused", got.Files[1].ErrorMessage)
}

func TestRecentCyclesNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordCycle(ctx, sampleCycle(base.Add(time.Duration(i)*time.Minute))))
	}

	cycles, err := store.RecentCycles(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	assert.True(t, cycles[0].StartedAt.After(cycles[1].StartedAt))
}

func TestPruneKeepsNewest(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordCycle(ctx, sampleCycle(base.Add(time.Duration(i)*time.Minute))))
	}

	require.NoError(t, store.Prune(ctx, 2))

	cycles, err := store.RecentCycles(ctx, 10)
	require.NoError(t, err)
	require.Len(t, cycles, 2)
	// The two newest survived.
	assert.Equal(t, base.Add(4*time.Minute).Unix(), cycles[0].StartedAt.Unix())
	assert.Equal(t, base.Add(3*time.Minute).Unix(), cycles[1].StartedAt.Unix())
}

func TestRecordNilCycle(t *testing.T) {
	store := newTestStore(t)
	err := store.RecordCycle(t.Context(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Re-opening the same database must not re-run applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
