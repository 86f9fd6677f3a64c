// Package history records generation runs in a local SQLite database so
// users can audit what was written, by which provider, and why.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	file        TEXT NOT NULL,
	feature     TEXT NOT NULL DEFAULT '',
	test_name   TEXT NOT NULL DEFAULT '',
	mode        TEXT NOT NULL,
	match_rule  TEXT NOT NULL DEFAULT '',
	provider    TEXT NOT NULL,
	model       TEXT NOT NULL DEFAULT '',
	tokens_in   INTEGER NOT NULL DEFAULT 0,
	tokens_out  INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_file ON runs(file);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Run is one recorded generation attempt.
type Run struct {
	ID        string
	File      string
	Feature   string
	TestName  string
	Mode      string // "generate", "update", "whole-file"
	MatchRule string
	Provider  string
	Model     string
	TokensIn  int
	TokensOut int
	Duration  time.Duration
	Error     string
	CreatedAt time.Time
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("applying schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts a run. A missing ID is filled with a fresh UUID, which is
// also returned.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, file, feature, test_name, mode, match_rule, provider, model, tokens_in, tokens_out, duration_ms, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.File, run.Feature, run.TestName, run.Mode, run.MatchRule,
		run.Provider, run.Model, run.TokensIn, run.TokensOut,
		run.Duration.Milliseconds(), run.Error, run.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file, feature, test_name, mode, match_rule, provider, model, tokens_in, tokens_out, duration_ms, error, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

// ByFile returns runs for a specific file, newest first.
func (s *Store) ByFile(ctx context.Context, file string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file, feature, test_name, mode, match_rule, provider, model, tokens_in, tokens_out, duration_ms, error, created_at
		FROM runs WHERE file = ? ORDER BY created_at DESC, id LIMIT ?`, file, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(
			&r.ID, &r.File, &r.Feature, &r.TestName, &r.Mode, &r.MatchRule,
			&r.Provider, &r.Model, &r.TokensIn, &r.TokensOut,
			&durationMS, &r.Error, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
