/*
store.go - Persistence interface for reconciliation run history

PURPOSE:
  Defines the interface between the reconciler and the database. Only the
  summary of a finished run is stored: who ran it, on which files, and how
  many records resolved, stayed unresolved or need review.

WHAT IS NOT STORED:
  No reconciliation state crosses runs. Allocation pools, normalized tables
  and enriched rows are built per run and discarded. A second run over the
  same files starts from empty cursors and produces the same output.

APPEND-ONLY CONTRACT:
  - SaveRun(): single write per finished run
  - NO Update() or Delete() methods exist

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

EXAMPLE:
  err := store.SaveRun(ctx, generic.RunRecord{ID: id, Total: 42, ...})
  runs, err := store.ListRuns(ctx, 20)

SEE ALSO:
  - osg/reconcile.go: Produces the summaries
  - api/handlers.go: Exposes run history
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// RUN RECORD - Summary of one reconciliation pass
// =============================================================================

// RunSource identifies which surface started a run.
type RunSource string

const (
	SourceAPI      RunSource = "api"
	SourceCLI      RunSource = "cli"
	SourceScenario RunSource = "scenario"
)

type RunRecord struct {
	ID           string
	Source       RunSource
	ProductFile  string
	WarrantyFile string

	Total       int
	Resolved    int
	Unresolved  int
	NeedsReview int

	// Counts keyed by resolver stage and by review reason
	ByStage  map[string]int
	ByReason map[string]int

	CreatedAt time.Time
}

// =============================================================================
// RUN STORE - Interface for run history persistence (append-only)
// =============================================================================

type RunStore interface {
	// SaveRun persists a finished run summary.
	SaveRun(ctx context.Context, run RunRecord) error

	// GetRun returns a run by ID or ErrRunNotFound.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns the most recent runs first. limit <= 0 means all.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
