package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	gdrive "google.golang.org/api/drive/v3"

	"github.com/sigma-ops/sigma-relay/internal/core/domain"
	"github.com/sigma-ops/sigma-relay/internal/core/ports/driven"
	"github.com/sigma-ops/sigma-relay/internal/logger"
	"github.com/sigma-ops/sigma-relay/internal/retry"
)

// Ensure Source implements the port.
var _ driven.Source = (*Source)(nil)

const (
	// DefaultPageSize is the listing page size.
	DefaultPageSize = 100

	// downloadChunkSize is the copy buffer used when streaming content
	// to disk.
	downloadChunkSize = 32768

	listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, parents)"
)

// Source is the Google Drive implementation of the relay's source port.
type Source struct {
	svc      *gdrive.Service
	retry    retry.Policy
	limiter  *RateLimiter
	log      logger.Logger
	pageSize int64
}

// NewSource wraps a Drive service. The retry policy applies to every
// network round trip; pass the zero Policy to use the defaults.
func NewSource(svc *gdrive.Service, policy retry.Policy, log logger.Logger) *Source {
	if log == nil {
		log = logger.Nop()
	}
	if policy.MaxAttempts == 0 {
		policy = retry.NewPolicy(log)
	}
	return &Source{
		svc:      svc,
		retry:    policy,
		limiter:  NewRateLimiter(),
		log:      log,
		pageSize: DefaultPageSize,
	}
}

// List returns the non-trashed direct children of folderID. Pages are
// fetched until the continuation token runs out; each page fetch is
// retried individually. Duplicate ids across pages are dropped.
func (s *Source) List(ctx context.Context, folderID string) ([]domain.FileRecord, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)

	var records []domain.FileRecord
	seen := make(map[string]bool)
	pageToken := ""

	for {
		var page *gdrive.FileList
		err := s.retry.Do(ctx, "drive list", func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			resp, err := s.svc.Files.List().
				Q(query).
				PageSize(s.pageSize).
				Fields(listFields).
				PageToken(pageToken).
				Context(ctx).
				Do()
			if err != nil {
				return s.classify(err)
			}
			page = resp
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, f := range page.Files {
			if seen[f.Id] {
				continue
			}
			seen[f.Id] = true
			records = append(records, toRecord(f))
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	s.log.Infof("drive: found %d file(s) in folder %s", len(records), folderID)
	return records, nil
}

// Download materialises record under destDir and returns the local path.
// Drive-native documents are exported to their standard format; anything
// else is streamed in fixed-size chunks. The transfer is retried as a
// whole, so a failed partial download restarts from byte zero.
func (s *Source) Download(ctx context.Context, record *domain.FileRecord, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o700); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	dest := filepath.Join(destDir, SanitizeName(record.Name))
	s.log.Infof("drive: downloading %q (id=%s, mime=%s) -> %s",
		record.Name, record.ID, record.MimeType, dest)

	err := s.retry.Do(ctx, "drive download", func() error {
		return s.fetchTo(ctx, record, dest)
	})
	if err != nil {
		return "", fmt.Errorf("download %q: %w", record.Name, err)
	}
	return dest, nil
}

// fetchTo performs one complete transfer attempt into dest, truncating
// any partial file left by a previous attempt.
func (s *Source) fetchTo(ctx context.Context, record *domain.FileRecord, dest string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	var resp *http.Response
	var err error
	if IsNative(record.MimeType) {
		resp, err = s.svc.Files.Export(record.ID, ExportMimeType(record.MimeType)).
			Context(ctx).Download()
	} else {
		resp, err = s.svc.Files.Get(record.ID).Context(ctx).Download()
	}
	if err != nil {
		return s.classify(err)
	}
	defer resp.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	buf := make([]byte, downloadChunkSize)
	if _, err := io.CopyBuffer(f, resp.Body, buf); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return f.Close()
}

// EnsureArchiveFolder returns the id of the archive folder with the
// given display name in the account root, creating it when missing.
// Lookup and creation are retried individually.
func (s *Source) EnsureArchiveFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = '%s' and 'root' in parents and trashed = false",
		name, MimeTypeFolder)

	var existing string
	err := s.retry.Do(ctx, "drive folder lookup", func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		resp, err := s.svc.Files.List().
			Q(query).
			PageSize(10).
			Fields("files(id, name)").
			Context(ctx).
			Do()
		if err != nil {
			return s.classify(err)
		}
		if len(resp.Files) > 0 {
			existing = resp.Files[0].Id
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("lookup archive folder %q: %w", name, err)
	}
	if existing != "" {
		s.log.Debugf("drive: found archive folder %q (id=%s)", name, existing)
		return existing, nil
	}

	var created string
	err = s.retry.Do(ctx, "drive folder create", func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		folder, err := s.svc.Files.Create(&gdrive.File{
			Name:     name,
			MimeType: MimeTypeFolder,
			Parents:  []string{"root"},
		}).Fields("id, name").Context(ctx).Do()
		if err != nil {
			return s.classify(err)
		}
		created = folder.Id
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create archive folder %q: %w", name, err)
	}
	s.log.Infof("drive: created archive folder %q (id=%s) in root", name, created)
	return created, nil
}

// Archive moves the file under archiveFolderID by replacing all of its
// current parents in one update. A file already parented there is a
// no-op success. Every failure is contained here and reported as false
// so the caller can continue with other files.
func (s *Source) Archive(ctx context.Context, fileID, archiveFolderID string) bool {
	var parents []string
	err := s.retry.Do(ctx, "drive get parents", func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		meta, err := s.svc.Files.Get(fileID).
			Fields("id, name, parents").
			Context(ctx).
			Do()
		if err != nil {
			return s.classify(err)
		}
		parents = meta.Parents
		return nil
	})
	if err != nil {
		s.log.Errorf("drive: cannot read parents of %s: %v", fileID, err)
		return false
	}

	for _, p := range parents {
		if p == archiveFolderID {
			s.log.Infof("drive: file %s already in archive folder %s", fileID, archiveFolderID)
			return true
		}
	}

	err = s.retry.Do(ctx, "drive move to archive", func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		call := s.svc.Files.Update(fileID, nil).
			AddParents(archiveFolderID).
			Fields("id, parents").
			Context(ctx)
		if len(parents) > 0 {
			call = call.RemoveParents(strings.Join(parents, ","))
		}
		if _, err := call.Do(); err != nil {
			return s.classify(err)
		}
		return nil
	})
	if err != nil {
		s.log.Errorf("drive: cannot move %s to archive: %v", fileID, err)
		return false
	}

	s.log.Infof("drive: moved file %s to archive folder %s", fileID, archiveFolderID)
	return true
}

// Delete removes a file from Drive. The relay itself archives instead of
// deleting; this is kept for operational tooling.
func (s *Source) Delete(ctx context.Context, fileID string) error {
	err := s.retry.Do(ctx, "drive delete", func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
			return s.classify(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", fileID, err)
	}
	s.log.Infof("drive: deleted file %s", fileID)
	return nil
}

// classify maps API errors to the package sentinels and feeds 429s back
// into the rate limiter.
func (s *Source) classify(err error) error {
	if IsRateLimited(err) {
		s.limiter.RecordRateLimitError(0)
	}
	return WrapError(err)
}

// SanitizeName flattens a display name into a safe local file name by
// replacing path separators. Two distinct remote names may collide after
// sanitisation; the later download wins.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, "\\", "_")
}

// toRecord converts Drive file metadata to a domain record.
func toRecord(f *gdrive.File) domain.FileRecord {
	rec := domain.FileRecord{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Size:     f.Size,
		Status:   domain.StatusListed,
	}
	if f.ModifiedTime != "" {
		if ts, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			rec.ModifiedTime = ts
		}
	}
	return rec
}
