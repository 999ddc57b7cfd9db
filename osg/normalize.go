package osg

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/osg-reconciler/generic"
)

// =============================================================================
// NORMALIZER - Raw tables to canonical records
// =============================================================================

// Malformed cells never fail normalization: they become "" or the invalid
// decimal sentinel and the row flows on. Only missing tables or required
// columns are fatal.

var (
	floatIntegerPattern = regexp.MustCompile(`^-?\d+\.0+$`)
	scientificPattern   = regexp.MustCompile(`^\d+(\.\d+)?[eE]\+?\d+$`)
)

// NormalizeProducts converts a PRODUCT table into records, in input order.
func NormalizeProducts(t generic.Table) ([]ProductRecord, error) {
	if err := t.Require(ProductColumns...); err != nil {
		return nil, fmt.Errorf("normalize products: %w", err)
	}

	records := make([]ProductRecord, t.Len())
	for i := range t.Rows {
		records[i] = ProductRecord{
			CustomerID:    NormalizeID(t.Value(i, ColCustomerMobile)),
			Model:         normalizeText(t.Value(i, ColModel)),
			Category:      strings.ToUpper(normalizeText(t.Value(i, ColCategory))),
			Brand:         normalizeText(t.Value(i, ColBrand)),
			InvoiceNumber: NormalizeID(t.Value(i, ColInvoiceNumber)),
			ItemRate:      generic.ParseDecimal(t.Value(i, ColItemRate)),
			SerialID:      NormalizeID(t.Value(i, ColIMEI)),
		}
	}
	return records, nil
}

// NormalizeWarranties converts an OSG table into records, in input order.
// Invoice Number and Plan Price are optional columns.
func NormalizeWarranties(t generic.Table) ([]WarrantyRecord, error) {
	if err := t.Require(WarrantyColumns...); err != nil {
		return nil, fmt.Errorf("normalize warranties: %w", err)
	}

	records := make([]WarrantyRecord, t.Len())
	for i := range t.Rows {
		records[i] = WarrantyRecord{
			Row:           i,
			CustomerID:    NormalizeID(t.Value(i, ColCustomerMobile)),
			RetailerSKU:   normalizeText(t.Value(i, ColRetailerSKU)),
			InvoiceNumber: NormalizeID(t.Value(i, ColInvoiceNumber)),
			PlanPrice:     normalizeText(t.Value(i, ColPlanPrice)),
			Fields:        t.Record(i),
		}
	}
	return records, nil
}

// NormalizeID keeps an identifier as text. Spreadsheet tooling sometimes
// hands integer cells over as "9876543210.0" or "9.87654321E+09"; both are
// folded back to the digits so the same phone number matches across files.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case floatIntegerPattern.MatchString(s):
		return s[:strings.IndexByte(s, '.')]
	case scientificPattern.MatchString(s):
		d, err := decimal.NewFromString(s)
		if err == nil && d.IsInteger() {
			return d.String()
		}
	}
	return s
}

func normalizeText(s string) string {
	return strings.TrimSpace(s)
}
