package osg

import (
	"regexp"
	"time"

	"github.com/warp/osg-reconciler/generic"
)

// =============================================================================
// REPORT - One enriched row per warranty record
// =============================================================================

// ReportRow is one output line. Values holds every column of OutputColumns.
type ReportRow struct {
	Values      map[string]string
	Stage       Stage
	NeedsReview bool
	Reasons     []ReviewReason
}

// Report is the enriched OSG table plus its run summary.
type Report struct {
	Columns []string
	Rows    []ReportRow
	Summary Summary
}

// Summary counts outcomes across a run.
type Summary struct {
	Total       int
	Resolved    int
	Unresolved  int
	NeedsReview int
	ByStage     map[Stage]int
	ByReason    map[ReviewReason]int
}

// Records renders the rows in column order for exporters.
func (r *Report) Records() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rec := make([]string, len(r.Columns))
		for j, col := range r.Columns {
			rec[j] = row.Values[col]
		}
		out[i] = rec
	}
	return out
}

func (s *Summary) add(row ReportRow) {
	s.Total++
	if row.Values[ColModel] != "" {
		s.Resolved++
	} else {
		s.Unresolved++
	}
	if row.NeedsReview {
		s.NeedsReview++
	}
	s.ByStage[row.Stage]++
	for _, r := range row.Reasons {
		s.ByReason[r]++
	}
}

// Record converts the summary into a run history entry.
func (s Summary) Record(id string, source generic.RunSource, productFile, warrantyFile string, at time.Time) generic.RunRecord {
	run := generic.RunRecord{
		ID:           id,
		Source:       source,
		ProductFile:  productFile,
		WarrantyFile: warrantyFile,
		Total:        s.Total,
		Resolved:     s.Resolved,
		Unresolved:   s.Unresolved,
		NeedsReview:  s.NeedsReview,
		ByStage:      make(map[string]int, len(s.ByStage)),
		ByReason:     make(map[string]int, len(s.ByReason)),
		CreatedAt:    at,
	}
	for k, v := range s.ByStage {
		run.ByStage[string(k)] = v
	}
	for k, v := range s.ByReason {
		run.ByReason[string(k)] = v
	}
	return run
}

func newSummary() Summary {
	return Summary{ByStage: make(map[Stage]int), ByReason: make(map[ReviewReason]int)}
}

// =============================================================================
// ASSEMBLER - Merge resolution, allocation and term parsing
// =============================================================================

var storeCodePattern = regexp.MustCompile(`\b([A-Z]{2,})\b`)

// StoreCode extracts the first standalone run of two or more upper-case
// letters from a product invoice number ("BLR-000123" -> "BLR").
func StoreCode(invoice string) string {
	if m := storeCodePattern.FindStringSubmatch(invoice); m != nil {
		return m[1]
	}
	return ""
}

// Assembler builds report rows. It consumes the allocation pool, so rows
// must be assembled in warranty input order.
type Assembler struct {
	pool    *AllocationPool
	details map[PoolKey]ProductRecord
	summary Summary
}

// NewAssembler builds the per-run allocation pool from products. Category
// and brand for a key come from its first product row.
func NewAssembler(products []ProductRecord) *Assembler {
	details := make(map[PoolKey]ProductRecord)
	for _, p := range products {
		k := PoolKey{p.CustomerID, p.Model}
		if _, seen := details[k]; !seen {
			details[k] = p
		}
	}
	return &Assembler{
		pool:    NewAllocationPool(products),
		details: details,
		summary: newSummary(),
	}
}

// Row enriches one warranty record.
func (a *Assembler) Row(w WarrantyRecord, res Resolution) ReportRow {
	values := make(map[string]string, len(OutputColumns))
	for _, col := range OutputColumns {
		values[col] = w.Fields[col]
	}
	values[ColCustomerMobile] = w.CustomerID
	values[ColInvoiceNumber] = w.InvoiceNumber
	values[ColRetailerSKU] = w.RetailerSKU
	values[ColPlanPrice] = w.PlanPrice
	values[ColModel] = res.Model
	values[ColQuantity] = "1"
	values[ColEWSQty] = "1"

	var exhausted bool
	values[ColCategory], values[ColBrand] = "", ""
	values[ColProductInvoiceNumber], values[ColItemRate], values[ColIMEI] = "", "", ""
	if res.Model != "" {
		d := a.details[PoolKey{w.CustomerID, res.Model}]
		values[ColCategory] = d.Category
		values[ColBrand] = d.Brand

		invoice, ok := a.pool.TakeInvoice(w.CustomerID, res.Model)
		exhausted = !ok
		rate, _ := a.pool.TakeItemRate(w.CustomerID, res.Model)
		serial, _ := a.pool.TakeSerial(w.CustomerID, res.Model)

		values[ColProductInvoiceNumber] = invoice
		values[ColItemRate] = generic.FormatDecimal(rate)
		values[ColIMEI] = serial
	}
	values[ColStoreCode] = StoreCode(values[ColProductInvoiceNumber])

	term := ParseTerm(w.RetailerSKU)
	values[ColManufacturerWarranty] = term.ManufacturerWarranty
	values[ColDuration] = term.Duration

	row := ReportRow{Values: values, Stage: res.Stage}
	row.Reasons = reviewReasons(values, w.PlanPrice, exhausted)
	row.NeedsReview = len(row.Reasons) > 0
	a.summary.add(row)
	return row
}

// Summary returns the counts accumulated so far.
func (a *Assembler) Summary() Summary { return a.summary }

func reviewReasons(values map[string]string, planPrice string, exhausted bool) []ReviewReason {
	var reasons []ReviewReason
	if values[ColModel] == "" {
		reasons = append(reasons, ReasonUnresolved)
	}
	if values[ColIMEI] == "" {
		reasons = append(reasons, ReasonMissingSerial)
	}
	if !validPlanPrice(planPrice) {
		reasons = append(reasons, ReasonInvalidPlanPrice)
	}
	if exhausted {
		reasons = append(reasons, ReasonAllocationExhausted)
	}
	return reasons
}

// A blank plan price is missing rather than wrong and is not flagged.
func validPlanPrice(s string) bool {
	if s == "" {
		return true
	}
	d := generic.ParseDecimal(s)
	return d.Valid && !d.Decimal.IsNegative()
}
