package domain

import (
	"time"

	"github.com/google/uuid"
)

// CycleResult is the outcome of one relay cycle: every file the cycle
// produced a record for, plus aggregate counters for the history store
// and the UI.
type CycleResult struct {
	// ID uniquely identifies the cycle.
	ID string

	// StartedAt and EndedAt bound the cycle's wall-clock duration.
	StartedAt time.Time
	EndedAt   time.Time

	// Files holds the per-file records in listing order. Files excluded
	// by the extension filter never appear here.
	Files []FileRecord

	// Uploaded counts files that reached at least StatusUploaded.
	Uploaded int

	// Failed counts files that ended in StatusFailed.
	Failed int

	// Skipped counts files excluded by the size filter after download.
	Skipped int

	// ErrorMessage is set when the cycle itself failed (e.g. the sink
	// connection could not be opened).
	ErrorMessage string
}

// NewCycleResult starts a cycle result stamped with a fresh id.
func NewCycleResult() *CycleResult {
	return &CycleResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// Finish stamps the end time and tallies the counters from Files.
func (c *CycleResult) Finish() {
	c.EndedAt = time.Now()
	c.Uploaded = 0
	c.Failed = 0
	for i := range c.Files {
		switch c.Files[i].Status {
		case StatusUploaded, StatusArchived:
			c.Uploaded++
		case StatusFailed:
			c.Failed++
		}
	}
}
