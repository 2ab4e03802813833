// Package sqlite persists relay cycle history in a local SQLite
// database so the front ends can show what the relay has done between
// sessions.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sigma-ops/sigma-relay/internal/adapters/driven/history/sqlite/migrations"
	"github.com/sigma-ops/sigma-relay/internal/core/domain"
	"github.com/sigma-ops/sigma-relay/internal/core/ports/driven"
)

// Ensure Store implements the port.
var _ driven.HistoryStore = (*Store)(nil)

// Store is the SQLite-backed cycle history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a history store at the specified data directory.
// If dataDir is empty, defaults to ~/.sigma-relay/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sigma-relay", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// WAL mode keeps readers (the UI) from blocking the relay worker.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordCycle persists a finished cycle and its per-file records in one
// transaction.
func (s *Store) RecordCycle(ctx context.Context, result *domain.CycleResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cycles (id, started_at, ended_at, uploaded, failed, skipped, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, result.ID, result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.EndedAt.UTC().Format(time.RFC3339Nano),
		result.Uploaded, result.Failed, result.Skipped,
		nullString(result.ErrorMessage))
	if err != nil {
		return fmt.Errorf("inserting cycle: %w", err)
	}

	for i, rec := range result.Files {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cycle_files (cycle_id, position, file_id, name, mime_type, size, status, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, result.ID, i, rec.ID, rec.Name, rec.MimeType, rec.Size,
			string(rec.Status), nullString(rec.ErrorMessage))
		if err != nil {
			return fmt.Errorf("inserting cycle file: %w", err)
		}
	}

	return tx.Commit()
}

// RecentCycles returns up to limit cycles, newest first, each with its
// file records in listing order.
func (s *Store) RecentCycles(ctx context.Context, limit int) ([]domain.CycleResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, uploaded, failed, skipped, error
		FROM cycles ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying cycles: %w", err)
	}
	defer rows.Close()

	var cycles []domain.CycleResult
	for rows.Next() {
		var c domain.CycleResult
		var started, ended string
		var errMsg sql.NullString
		if err := rows.Scan(&c.ID, &started, &ended, &c.Uploaded, &c.Failed, &c.Skipped, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning cycle: %w", err)
		}
		c.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		c.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
		c.ErrorMessage = errMsg.String
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cycles: %w", err)
	}

	for i := range cycles {
		files, err := s.cycleFiles(ctx, cycles[i].ID)
		if err != nil {
			return nil, err
		}
		cycles[i].Files = files
	}
	return cycles, nil
}

// Prune removes all but the newest keep cycles. Files go with their
// cycle via the cascade.
func (s *Store) Prune(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM cycles WHERE id NOT IN (
			SELECT id FROM cycles ORDER BY started_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning cycles: %w", err)
	}
	return nil
}

// cycleFiles loads the file records of one cycle.
func (s *Store) cycleFiles(ctx context.Context, cycleID string) ([]domain.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_id, name, mime_type, size, status, error
		FROM cycle_files WHERE cycle_id = ? ORDER BY position
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("querying cycle files: %w", err)
	}
	defer rows.Close()

	var files []domain.FileRecord
	for rows.Next() {
		var rec domain.FileRecord
		var mime, errMsg sql.NullString
		var status string
		if err := rows.Scan(&rec.ID, &rec.Name, &mime, &rec.Size, &status, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning cycle file: %w", err)
		}
		rec.MimeType = mime.String
		rec.Status = domain.FileStatus(status)
		rec.ErrorMessage = errMsg.String
		files = append(files, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cycle files: %w", err)
	}
	return files, nil
}

// migrate applies any unapplied *.up.sql files in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

// nullString maps empty strings to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
