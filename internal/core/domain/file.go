package domain

import (
	"path"
	"strings"
	"time"
)

// FileStatus tracks a file's progress through a relay cycle.
// The order is monotonic: a file only ever moves forward, or to
// StatusFailed, which halts it for the current cycle. A failed file was
// never archived, so it reappears in the next listing and is retried.
type FileStatus string

const (
	// StatusListed means the file was returned by the source listing.
	StatusListed FileStatus = "listed"
	// StatusDownloaded means a local staging copy exists.
	StatusDownloaded FileStatus = "downloaded"
	// StatusUploaded means the sink accepted the file.
	StatusUploaded FileStatus = "uploaded"
	// StatusArchived means the source copy was moved to the archive folder.
	StatusArchived FileStatus = "archived"
	// StatusFailed means some stage failed; ErrorMessage has the cause.
	StatusFailed FileStatus = "failed"
)

// FileRecord is one file known to the source folder, tracked through a
// single relay cycle.
type FileRecord struct {
	// ID is the opaque identifier assigned by the remote source.
	ID string

	// Name is the display name in the source folder.
	Name string

	// MimeType is the source-reported MIME type.
	MimeType string

	// Size is the source-reported size in bytes. Provider-native
	// documents may report zero.
	Size int64

	// ModifiedTime is the source-reported last modification time.
	ModifiedTime time.Time

	// LocalPath is where the staging copy was written. Empty until the
	// file has been downloaded.
	LocalPath string

	// Status is the file's current stage.
	Status FileStatus

	// ErrorMessage describes the failure when Status is StatusFailed.
	ErrorMessage string
}

// Fail marks the record failed with the given cause.
func (f *FileRecord) Fail(err error) {
	f.Status = StatusFailed
	if err != nil {
		f.ErrorMessage = err.Error()
	}
}

// Extension returns the file's extension without the leading dot,
// lower-cased. Empty when the name has no extension.
func (f *FileRecord) Extension() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(f.Name), "."))
}
