/*
Package generic provides the domain-agnostic building blocks of the reconciler.

PURPOSE:
  Nothing in this package knows what a warranty plan or a product sale is.
  It holds the pieces every reconciliation pass needs regardless of the
  datasets involved: header-addressed tables handed over by a loader,
  permissive decimal parsing, keyed FIFO queues, run history persistence
  and the shared error taxonomy.

KEY CONCEPTS IN THIS FILE (types.go):
  - Table: raw cell text addressed by header name, one per uploaded file
  - ParseDecimal: permissive numeric coercion with a "not a number" sentinel

DESIGN PRINCIPLES:
  1. Permissive input: malformed cells never fail a run, they become blanks
  2. Precision: uses decimal.Decimal so prices compare exactly
  3. Identifiers stay text: phone numbers and invoice numbers keep their
     formatting and leading zeros

USAGE:
  table := generic.NewTable("PRODUCT", header, rows)
  if err := table.Require("Customer Mobile", "Model"); err != nil {
      return err
  }
  rate := generic.ParseDecimal(table.Value(0, "Item Rate"))

SEE ALSO:
  - fifo.go: Keyed FIFO queues used by the allocation pool
  - errors.go: Sentinel and structured errors
  - store.go: Run history interfaces
*/
package generic

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TABLE - Raw tabular input addressed by column header
// =============================================================================

// Table is a grid of cell text with a header row. Loaders produce one Table
// per uploaded file; domain normalizers turn tables into typed records.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table from a header row and data rows. Header cells are
// trimmed; when a header repeats, the first occurrence wins.
func NewTable(name string, header []string, rows [][]string) Table {
	t := Table{
		Name:    name,
		Columns: make([]string, len(header)),
		Rows:    rows,
		index:   make(map[string]int, len(header)),
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		t.Columns[i] = h
		if _, dup := t.index[h]; !dup && h != "" {
			t.index[h] = i
		}
	}
	return t
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// IsEmpty reports whether the table has neither a header nor data.
func (t Table) IsEmpty() bool { return len(t.Columns) == 0 && len(t.Rows) == 0 }

// HasColumn reports whether the header contains col.
func (t Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Cell returns the raw text at (row, col). ok is false when the column is
// unknown or the row is shorter than the header.
func (t Table) Cell(row int, col string) (string, bool) {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.Rows) {
		return "", false
	}
	r := t.Rows[row]
	if i >= len(r) {
		return "", false
	}
	return r[i], true
}

// Value is Cell without the presence flag.
func (t Table) Value(row int, col string) string {
	v, _ := t.Cell(row, col)
	return v
}

// Record returns every named column of a row as a map.
func (t Table) Record(row int) map[string]string {
	rec := make(map[string]string, len(t.index))
	for col := range t.index {
		rec[col] = t.Value(row, col)
	}
	return rec
}

// Require returns a MissingColumnError for the first absent column.
func (t Table) Require(cols ...string) error {
	if t.IsEmpty() {
		return &MissingTableError{Table: t.Name}
	}
	for _, c := range cols {
		if !t.HasColumn(c) {
			return &MissingColumnError{Table: t.Name, Column: c}
		}
	}
	return nil
}

// =============================================================================
// DECIMALS - Permissive numeric coercion
// =============================================================================

var currencyPrefixes = []string{"₹", "Rs.", "Rs", "INR", "$"}

// ParseDecimal coerces cell text to a decimal. Thousands separators and a
// leading currency marker are tolerated. Anything else unparsable yields an
// invalid NullDecimal, the "not a number" sentinel: it is missing, not zero.
func ParseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(strings.TrimPrefix(s, p))
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// FormatDecimal renders a NullDecimal for output; the sentinel renders blank.
func FormatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// InRange reports whether d is valid and lies within [low, high].
func InRange(d decimal.NullDecimal, low, high decimal.Decimal) bool {
	if !d.Valid {
		return false
	}
	return d.Decimal.GreaterThanOrEqual(low) && d.Decimal.LessThanOrEqual(high)
}
