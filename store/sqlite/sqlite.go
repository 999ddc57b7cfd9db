/*
Package sqlite provides a SQLite-backed implementation of generic.RunStore.

PURPOSE:
  Keeps the history of reconciliation runs across server restarts. Only
  summaries are written: file names, outcome counts and the per-stage and
  per-reason breakdowns. The enriched rows themselves are returned to the
  caller and never persisted.

APPEND-ONLY:
  - INSERT OR IGNORE on the run ID; a repeated ID keeps the first summary
  - No UPDATE or DELETE statements on the runs table

KEY TABLES:
  runs: One row per finished reconciliation

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, plus WAL so readers don't block the
  single writer.

USAGE:
  store, err := sqlite.New("./data/osg.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/osg-reconciler/generic"
)

// Store implements generic.RunStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every pooled connection to ":memory:" would be a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		product_file TEXT,
		warranty_file TEXT,
		total INTEGER NOT NULL,
		resolved INTEGER NOT NULL,
		unresolved INTEGER NOT NULL,
		needs_review INTEGER NOT NULL,
		by_stage_json TEXT NOT NULL,
		by_reason_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN STORE (generic.RunStore interface)
// =============================================================================

// SaveRun persists a run summary. Saving an existing ID is a no-op.
func (s *Store) SaveRun(ctx context.Context, run generic.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byStage, err := json.Marshal(counts(run.ByStage))
	if err != nil {
		return fmt.Errorf("failed to encode stage counts: %w", err)
	}
	byReason, err := json.Marshal(counts(run.ByReason))
	if err != nil {
		return fmt.Errorf("failed to encode reason counts: %w", err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT OR IGNORE INTO runs
		(id, source, product_file, warranty_file, total, resolved, unresolved,
		 needs_review, by_stage_json, by_reason_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		string(run.Source),
		nullString(run.ProductFile),
		nullString(run.WarrantyFile),
		run.Total,
		run.Resolved,
		run.Unresolved,
		run.NeedsReview,
		string(byStage),
		string(byReason),
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*generic.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]generic.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectRuns + ` ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []generic.RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const selectRuns = `
	SELECT id, source, product_file, warranty_file, total, resolved, unresolved,
		needs_review, by_stage_json, by_reason_json, created_at
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (generic.RunRecord, error) {
	var r generic.RunRecord
	var source, byStage, byReason, createdAt string
	var productFile, warrantyFile sql.NullString

	if err := row.Scan(
		&r.ID, &source, &productFile, &warrantyFile,
		&r.Total, &r.Resolved, &r.Unresolved, &r.NeedsReview,
		&byStage, &byReason, &createdAt,
	); err != nil {
		return generic.RunRecord{}, err
	}

	r.Source = generic.RunSource(source)
	r.ProductFile = productFile.String
	r.WarrantyFile = warrantyFile.String
	if err := json.Unmarshal([]byte(byStage), &r.ByStage); err != nil {
		return generic.RunRecord{}, fmt.Errorf("run %s: stage counts: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(byReason), &r.ByReason); err != nil {
		return generic.RunRecord{}, fmt.Errorf("run %s: reason counts: %w", r.ID, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return r, nil
}

// Helper functions

func counts(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ generic.RunStore = (*Store)(nil)
