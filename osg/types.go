// Package osg implements reconciliation of extended-warranty plan sales
// (OSG records) against point-of-sale product sales (PRODUCT records).
// It uses the generic tables and queues with a warranty-specific resolver,
// allocation pool and term parser.
package osg

import "github.com/shopspring/decimal"

// =============================================================================
// SOURCE COLUMNS
// =============================================================================

const (
	ColCustomerMobile = "Customer Mobile"
	ColModel          = "Model"
	ColCategory       = "Category"
	ColBrand          = "Brand"
	ColInvoiceNumber  = "Invoice Number"
	ColItemRate       = "Item Rate"
	ColIMEI           = "IMEI"
	ColRetailerSKU    = "Retailer SKU"
	ColPlanPrice      = "Plan Price"
)

// Output-only columns.
const (
	ColProductInvoiceNumber = "Product Invoice Number"
	ColStoreCode            = "Store Code"
	ColQuantity             = "Quantity"
	ColEWSQty               = "EWS QTY"
	ColManufacturerWarranty = "Manufacturer Warranty"
	ColDuration             = "Duration (Year)"
)

// ProductColumns must be present in every PRODUCT upload.
var ProductColumns = []string{
	ColCustomerMobile, ColModel, ColCategory, ColInvoiceNumber, ColItemRate, ColIMEI, ColBrand,
}

// WarrantyColumns must be present in every OSG upload.
var WarrantyColumns = []string{ColCustomerMobile, ColRetailerSKU}

// OutputColumns is the fixed column order of the enriched report.
var OutputColumns = []string{
	ColCustomerMobile, "Date", ColInvoiceNumber, ColProductInvoiceNumber, "Customer Name",
	ColStoreCode, "Branch", "Region", ColIMEI, ColCategory, ColBrand, ColQuantity,
	"Item Code", ColModel, "Plan Type", ColEWSQty, ColItemRate, ColPlanPrice,
	"Sold Price", "Email", "Product Count", ColManufacturerWarranty, ColRetailerSKU,
	"OnsiteGo SKU", ColDuration, "Total Coverage", "Comment", "Return Flag",
	"Return against invoice No.", "Primary Invoice No.",
}

// =============================================================================
// RECORDS
// =============================================================================

// ProductRecord is one point-of-sale line. Immutable once normalized.
type ProductRecord struct {
	CustomerID    string
	Model         string
	Category      string // upper-cased
	Brand         string
	InvoiceNumber string
	ItemRate      decimal.NullDecimal // invalid = not a number
	SerialID      string
}

// WarrantyRecord is one sold protection plan awaiting enrichment.
type WarrantyRecord struct {
	Row           int // zero-based position in the OSG table
	CustomerID    string
	RetailerSKU   string
	InvoiceNumber string // OSG numbering, distinct from product invoices
	PlanPrice     string // raw; validated by the assembler

	// Fields holds every source column verbatim for passthrough.
	Fields map[string]string
}

// =============================================================================
// RESOLUTION STAGES
// =============================================================================

// Stage records which rule of the resolver cascade decided a record.
type Stage string

const (
	StageNoCandidates Stage = "no_candidates"
	StageSingleModel  Stage = "single_model"
	StageCategory     Stage = "category"
	StageSlab         Stage = "price_slab"
	StageInvoice      Stage = "invoice"
	StageAmbiguous    Stage = "ambiguous"
)

// Resolved reports whether the stage produced a model.
func (s Stage) Resolved() bool {
	switch s {
	case StageSingleModel, StageCategory, StageSlab, StageInvoice:
		return true
	}
	return false
}

// Resolution is the resolver's answer for one warranty record.
type Resolution struct {
	Model string
	Stage Stage
}

// =============================================================================
// REVIEW REASONS
// =============================================================================

// ReviewReason explains why an output row needs manual review.
type ReviewReason string

const (
	ReasonUnresolved          ReviewReason = "unresolved_model"
	ReasonMissingSerial       ReviewReason = "missing_serial"
	ReasonInvalidPlanPrice    ReviewReason = "invalid_plan_price"
	ReasonAllocationExhausted ReviewReason = "allocation_exhausted"
)
