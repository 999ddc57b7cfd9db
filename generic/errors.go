/*
errors.go - Centralized error types for the reconciler

PURPOSE:
  All fatal error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Input errors - A whole table or a required column is missing
  2. Format errors - A file that no loader understands
  3. Store errors - Run history lookups

WHAT IS NOT HERE:
  Per-row data-quality problems (an unresolved match, an exhausted
  allocation pool, an unparsable warranty term, a malformed number) are
  never errors. They degrade to blank fields plus a review flag on the
  output row so the batch always makes forward progress.

USAGE:
  if errors.Is(err, generic.ErrMissingColumn) {
      var mc *generic.MissingColumnError
      errors.As(err, &mc)
      log.Printf("upload %s lacks %q", mc.Table, mc.Column)
  }

SEE ALSO:
  - types.go: Table.Require produces the structured errors
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingTable is returned when an input dataset is absent or empty.
	ErrMissingTable = errors.New("missing input table")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")

	// ErrUnsupportedFormat is returned when no loader handles a file.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrRunNotFound is returned when a run ID is not in the history.
	ErrRunNotFound = errors.New("run not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingTableError names the dataset that was not supplied.
type MissingTableError struct {
	Table string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("missing input table %q", e.Table)
}

func (e *MissingTableError) Unwrap() error {
	return ErrMissingTable
}

// MissingColumnError names the table and the absent column.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %q: missing required column %q", e.Table, e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingTable) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrUnsupportedFormat)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
