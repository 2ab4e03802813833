package driven

import (
	"context"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
)

// Source lists, downloads and archives files staged in the remote folder.
// The one implementation talks to Google Drive; the relay depends only on
// this interface.
type Source interface {
	// List returns the non-trashed direct children of folderID, across
	// all result pages, with no duplicate ids. Records come back in
	// StatusListed.
	List(ctx context.Context, folderID string) ([]domain.FileRecord, error)

	// Download materialises record's content under destDir, creating the
	// directory when absent, and returns the local path. Provider-native
	// documents are exported to a standard format first. A partial
	// download is restarted from scratch, never resumed.
	Download(ctx context.Context, record *domain.FileRecord, destDir string) (string, error)

	// EnsureArchiveFolder returns the id of the archive folder with the
	// given display name in the account root, creating it when missing.
	EnsureArchiveFolder(ctx context.Context, name string) (string, error)

	// Archive moves the file under the archive folder, replacing all of
	// its current parents. Archiving a file already in the archive folder
	// is a no-op success. Failures are reported as false, never as an
	// error, so the caller can continue with other files.
	Archive(ctx context.Context, fileID, archiveFolderID string) bool
}
