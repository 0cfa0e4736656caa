// Package history persists a record per pipeline run in SQLite. Recording is
// best-effort: the pipeline never fails because the history database is
// unavailable.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run captures one pipeline invocation.
type Run struct {
	ID                 string
	Mode               string
	Source             string
	VideoFile          string
	SubtitleOriginal   string
	SubtitleTranslated string
	Status             string
	ErrorMessage       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    source TEXT NOT NULL,
    video_file TEXT,
    subtitle_original TEXT,
    subtitle_translated TEXT,
    status TEXT NOT NULL,
    error_message TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin inserts a new run in the running state and returns it.
func (s *Store) Begin(ctx context.Context, mode, source string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		Source:    source,
		Status:    StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, mode, source, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Mode,
		run.Source,
		run.Status,
		run.CreatedAt.Format(time.RFC3339Nano),
		run.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Finish persists the terminal state of a run.
func (s *Store) Finish(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	run.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs
         SET video_file = ?, subtitle_original = ?, subtitle_translated = ?,
             status = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(run.VideoFile),
		nullableString(run.SubtitleOriginal),
		nullableString(run.SubtitleTranslated),
		run.Status,
		nullableString(run.ErrorMessage),
		run.UpdatedAt.Format(time.RFC3339Nano),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// Recent returns the newest runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, mode, source, video_file, subtitle_original, subtitle_translated,
                status, error_message, created_at, updated_at
         FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id           string
		mode         string
		source       string
		videoFile    sql.NullString
		subOriginal  sql.NullString
		subTrans     sql.NullString
		status       string
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&id, &mode, &source, &videoFile, &subOriginal, &subTrans,
		&status, &errorMessage, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:                 id,
		Mode:               mode,
		Source:             source,
		VideoFile:          videoFile.String,
		SubtitleOriginal:   subOriginal.String,
		SubtitleTranslated: subTrans.String,
		Status:             status,
		ErrorMessage:       errorMessage.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		run.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		run.UpdatedAt = updated
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
