// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of resolve runs: one row per run
// and one row per input line, so failed citations can be listed after the
// fact and fixed in the input file.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/adsbib/internal/batch"
)

// ErrNoRuns is returned when a lookup needs a run and the ledger is empty.
var ErrNoRuns = errors.New("ledger has no runs")

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Run is one resolve invocation.
type Run struct {
	ID        string
	Input     string
	Output    string
	Format    string
	Started   time.Time
	Finished  time.Time
	Resolved  int
	NotFound  int
	Failed    int
	Malformed int
	Skipped   int
	Cancelled bool
}

// Entry is one recorded input line.
type Entry struct {
	RunID   string
	Line    int
	Text    string
	Stem    string
	Volume  string
	Page    string
	Bibcode string
	Status  batch.Status
	Kind    string
	Error   string
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens or creates the ledger at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT,
			output TEXT,
			format TEXT,
			started TEXT NOT NULL,
			finished TEXT,
			resolved INTEGER,
			not_found INTEGER,
			failed INTEGER,
			malformed INTEGER,
			skipped INTEGER,
			cancelled INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			line INTEGER NOT NULL,
			text TEXT,
			stem TEXT,
			volume TEXT,
			page TEXT,
			bibcode TEXT,
			status TEXT NOT NULL,
			kind TEXT,
			error TEXT,
			PRIMARY KEY (run_id, line)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run and its per-line outcomes in one transaction.
func (s *Store) Record(ctx context.Context, run Run, outcomes []batch.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, output, format, started, finished,
			resolved, not_found, failed, malformed, skipped, cancelled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Input, run.Output, run.Format,
		formatTime(run.Started), formatTime(run.Finished),
		run.Resolved, run.NotFound, run.Failed, run.Malformed, run.Skipped, run.Cancelled,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcomes (run_id, line, text, stem, volume, page, bibcode, status, kind, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		_, err := stmt.ExecContext(ctx,
			run.ID, o.Line, o.Text,
			o.Fragment.Stem, o.Fragment.Volume, o.Fragment.Page,
			o.Bibcode, string(o.Status), o.Kind, o.Error,
		)
		if err != nil {
			return fmt.Errorf("inserting line %d: %w", o.Line, err)
		}
	}

	return tx.Commit()
}

// Runs returns the most recent runs first. A limit of 0 or less means 20.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, output, format, started, finished,
			resolved, not_found, failed, malformed, skipped, cancelled
		 FROM runs ORDER BY started DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.Format, &started, &finished,
			&r.Resolved, &r.NotFound, &r.Failed, &r.Malformed, &r.Skipped, &r.Cancelled); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Started = parseTime(started)
		r.Finished = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Failures returns the lines of runID that did not resolve, in input
// order. An empty runID selects the most recent run.
func (s *Store) Failures(ctx context.Context, runID string) ([]Entry, error) {
	if runID == "" {
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM runs ORDER BY started DESC, rowid DESC LIMIT 1`).Scan(&runID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRuns
		}
		if err != nil {
			return nil, fmt.Errorf("finding latest run: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, line, text, stem, volume, page, bibcode, status, kind, error
		 FROM outcomes
		 WHERE run_id = ? AND status NOT IN (?, ?)
		 ORDER BY line`,
		runID, string(batch.StatusResolved), string(batch.StatusSkipped))
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status string
		if err := rows.Scan(&e.RunID, &e.Line, &e.Text, &e.Stem, &e.Volume, &e.Page,
			&e.Bibcode, &status, &e.Kind, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		e.Status = batch.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// NewRun builds a Run row from a batch summary.
func NewRun(id string, info batch.RunInfo, sum batch.Summary) Run {
	return Run{
		ID:        id,
		Input:     info.Input,
		Output:    info.Output,
		Format:    info.Format,
		Started:   info.Started,
		Finished:  info.Finished,
		Resolved:  sum.Resolved,
		NotFound:  sum.NotFound,
		Failed:    sum.Failed,
		Malformed: sum.Malformed,
		Skipped:   sum.Skipped,
		Cancelled: sum.Cancelled,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
