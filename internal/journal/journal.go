// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps an advisory SQLite log of normalization runs.
// Journal failures are reported to the caller but never fail a pass.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/analysis-engine/pkg/types"
)

// Run is one recorded normalization pass.
type Run struct {
	ID              string        `json:"id" yaml:"id"`
	RecordName      string        `json:"record_name" yaml:"record_name"`
	UploadID        string        `json:"upload_id,omitempty" yaml:"upload_id,omitempty"`
	EntryID         string        `json:"entry_id,omitempty" yaml:"entry_id,omitempty"`
	AnalysisType    string        `json:"analysis_type" yaml:"analysis_type"`
	GenerationMode  string        `json:"generation_mode,omitempty" yaml:"generation_mode,omitempty"`
	Renamed         bool          `json:"renamed" yaml:"renamed"`
	NotebookWritten bool          `json:"notebook_written" yaml:"notebook_written"`
	InputsTotal     int           `json:"inputs_total" yaml:"inputs_total"`
	InputsDropped   int           `json:"inputs_dropped" yaml:"inputs_dropped"`
	ResultsIngested int           `json:"results_ingested" yaml:"results_ingested"`
	Duration        time.Duration `json:"duration" yaml:"duration"`
	StartedAt       time.Time     `json:"started_at" yaml:"started_at"`
}

// Store manages the run journal database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the journal database at cfg.Path, creating the
// schema when missing.
func Open(cfg types.JournalConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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
			record_name TEXT NOT NULL,
			upload_id TEXT,
			entry_id TEXT,
			analysis_type TEXT,
			generation_mode TEXT,
			renamed INTEGER NOT NULL DEFAULT 0,
			notebook_written INTEGER NOT NULL DEFAULT 0,
			inputs_total INTEGER NOT NULL DEFAULT 0,
			inputs_dropped INTEGER NOT NULL DEFAULT 0,
			results_ingested INTEGER NOT NULL DEFAULT 0,
			duration_ns INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_record_name ON runs(record_name)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run and returns it with any assigned fields filled in.
// A missing id gets a fresh UUID; a zero start time is set to now.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, record_name, upload_id, entry_id, analysis_type,
			generation_mode, renamed, notebook_written, inputs_total,
			inputs_dropped, results_ingested, duration_ns, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RecordName, run.UploadID, run.EntryID, run.AnalysisType,
		run.GenerationMode, run.Renamed, run.NotebookWritten, run.InputsTotal,
		run.InputsDropped, run.ResultsIngested, run.Duration.Nanoseconds(),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// ListOptions filters List.
type ListOptions struct {
	RecordName string
	Limit      int
}

// List returns runs newest first, optionally filtered by record name.
// A zero limit applies the configured default.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	query := `SELECT id, record_name, upload_id, entry_id, analysis_type,
		generation_mode, renamed, notebook_written, inputs_total,
		inputs_dropped, results_ingested, duration_ns, started_at
		FROM runs`
	var args []any
	if opts.RecordName != "" {
		query += ` WHERE record_name = ?`
		args = append(args, opts.RecordName)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationNS int64
		var startedAt string
		if err := rows.Scan(&run.ID, &run.RecordName, &run.UploadID, &run.EntryID,
			&run.AnalysisType, &run.GenerationMode, &run.Renamed, &run.NotebookWritten,
			&run.InputsTotal, &run.InputsDropped, &run.ResultsIngested,
			&durationNS, &startedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Duration = time.Duration(durationNS)
		if t, parseErr := time.Parse(time.RFC3339Nano, startedAt); parseErr == nil {
			run.StartedAt = t
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
