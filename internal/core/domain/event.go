package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind classifies relay status events.
type EventKind string

const (
	// EventCycleStarted is emitted when a cycle begins.
	EventCycleStarted EventKind = "cycle_started"
	// EventCycleFinished is emitted when a cycle ends, successfully or not.
	EventCycleFinished EventKind = "cycle_finished"
	// EventFileRelayed is emitted after a file was uploaded and archived.
	EventFileRelayed EventKind = "file_relayed"
	// EventFileFailed is emitted when a file's processing failed.
	EventFileFailed EventKind = "file_failed"
)

// Event is one status message emitted by the relay while it runs. The
// presentation layer consumes these from a channel; the core never blocks
// on a slow consumer.
type Event struct {
	// ID uniquely identifies the event.
	ID string

	// Time is when the event occurred.
	Time time.Time

	// Kind classifies the event.
	Kind EventKind

	// FileName names the file concerned, when the event is file-scoped.
	FileName string

	// Message is a human-readable description.
	Message string
}

// NewEvent builds an event stamped with a fresh id and the current time.
func NewEvent(kind EventKind, fileName, message string) Event {
	return Event{
		ID:       uuid.NewString(),
		Time:     time.Now(),
		Kind:     kind,
		FileName: fileName,
		Message:  message,
	}
}
