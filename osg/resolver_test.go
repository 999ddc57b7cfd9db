package osg_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/osg-reconciler/osg"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func rate(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

func product(customer, model, category, invoice string, itemRate int64, serial string) osg.ProductRecord {
	return osg.ProductRecord{
		CustomerID:    customer,
		Model:         model,
		Category:      category,
		Brand:         "BRAND",
		InvoiceNumber: invoice,
		ItemRate:      rate(itemRate),
		SerialID:      serial,
	}
}

func warranty(customer, sku, invoice string) osg.WarrantyRecord {
	return osg.WarrantyRecord{CustomerID: customer, RetailerSKU: sku, InvoiceNumber: invoice}
}

func newResolver(products ...osg.ProductRecord) *osg.Resolver {
	return osg.NewResolver(osg.NewClassifier(osg.DefaultKeywordRules()), products)
}

// =============================================================================
// CASCADE TESTS
// =============================================================================

func TestResolve_NoProductsForCustomer(t *testing.T) {
	// GIVEN: Products only for another customer
	// WHEN: Resolving a warranty for a customer with no purchases
	// THEN: Unresolved at the first step

	r := newResolver(product("111", "AC-1", "AC", "INV1", 30000, "S1"))

	res := r.Resolve(warranty("222", "AC : EWP : Warranty : AC", ""))

	assert.Equal(t, "", res.Model)
	assert.Equal(t, osg.StageNoCandidates, res.Stage)
	assert.False(t, res.Stage.Resolved())
}

func TestResolve_SingleModelShortCircuits(t *testing.T) {
	// GIVEN: A customer who bought the same model twice
	// WHEN: The SKU matches no category token at all
	// THEN: The only model is returned regardless of SKU content

	r := newResolver(
		product("111", "WM-7KG", "WASHING MACHINE", "INV1", 25000, "S1"),
		product("111", "WM-7KG", "WASHING MACHINE", "INV2", 25000, "S2"),
	)

	for _, sku := range []string{"", "garbage", "AC : EWP : Warranty : AC", "Slab : 1K-2K"} {
		res := r.Resolve(warranty("111", sku, ""))
		assert.Equal(t, "WM-7KG", res.Model, "sku %q", sku)
		assert.Equal(t, osg.StageSingleModel, res.Stage, "sku %q", sku)
	}
}

func TestResolve_CategoryNarrowsToOne(t *testing.T) {
	// GIVEN: Customer bought an AC and a TV
	// WHEN: The plan is an AC warranty
	// THEN: The category filter picks the AC

	r := newResolver(
		product("9999999999", "AC", "AC", "INV1", 15000, "S1"),
		product("9999999999", "TV", "TV", "INV2", 25000, "S2"),
	)

	res := r.Resolve(warranty("9999999999", "AC : EWP : Warranty : AC", ""))

	assert.Equal(t, "AC", res.Model)
	assert.Equal(t, osg.StageCategory, res.Stage)
}

func TestResolve_CategoryComparisonIgnoresCase(t *testing.T) {
	r := newResolver(
		product("111", "FRIDGE-1", "Refrigerator", "INV1", 40000, "S1"),
		product("111", "TV-1", "TV", "INV2", 25000, "S2"),
	)

	res := r.Resolve(warranty("111", "HAEW : Warranty : Ref/WM : Slab : 30K-50K", ""))

	assert.Equal(t, "FRIDGE-1", res.Model)
}

func TestResolve_SlabNarrowsWithinCategory(t *testing.T) {
	// GIVEN: Two TVs at different prices
	// WHEN: The SKU carries a 20K-30K slab
	// THEN: The TV priced inside the slab wins

	r := newResolver(
		product("111", "TV-32", "TV", "INV1", 18000, "S1"),
		product("111", "TV-43", "TV", "INV2", 27000, "S2"),
	)

	res := r.Resolve(warranty("111", "HAEW : Warranty : TV : Slab : 20K-30K : Dur : 1+2", ""))

	assert.Equal(t, "TV-43", res.Model)
	assert.Equal(t, osg.StageSlab, res.Stage)
}

func TestResolve_SlabBoundsAreInclusive(t *testing.T) {
	r := newResolver(
		product("111", "TV-32", "TV", "INV1", 19999, "S1"),
		product("111", "TV-43", "TV", "INV2", 20000, "S2"),
	)

	res := r.Resolve(warranty("111", "HAEW : Warranty : TV Slab : 20K-30K", ""))

	assert.Equal(t, "TV-43", res.Model)
}

func TestResolve_InvoiceBreaksSlabTie(t *testing.T) {
	// GIVEN: Two TVs in the same slab
	// WHEN: The OSG invoice number coincides with one product invoice
	// THEN: That product's model is chosen

	r := newResolver(
		product("111", "TV-43A", "TV", "INV-A", 25000, "S1"),
		product("111", "TV-43B", "TV", "INV-B", 26000, "S2"),
	)

	res := r.Resolve(warranty("111", "HAEW : Warranty : TV Slab : 20K-30K", "INV-B"))

	assert.Equal(t, "TV-43B", res.Model)
	assert.Equal(t, osg.StageInvoice, res.Stage)
}

func TestResolve_AmbiguousLeftUnresolved(t *testing.T) {
	// GIVEN: Two TVs in the same slab and no invoice coincidence
	// THEN: Nothing is guessed

	r := newResolver(
		product("111", "TV-43A", "TV", "INV-A", 25000, "S1"),
		product("111", "TV-43B", "TV", "INV-B", 26000, "S2"),
	)

	res := r.Resolve(warranty("111", "HAEW : Warranty : TV Slab : 20K-30K", "OSG-9"))

	assert.Equal(t, "", res.Model)
	assert.Equal(t, osg.StageAmbiguous, res.Stage)
}

func TestResolve_NoSlabSkipsInvoiceStep(t *testing.T) {
	// GIVEN: Two TVs, SKU without a slab, invoice coincides with one
	// THEN: Invoice matching only runs inside the slab branch, so unresolved

	r := newResolver(
		product("111", "TV-43A", "TV", "INV-A", 25000, "S1"),
		product("111", "TV-43B", "TV", "INV-B", 26000, "S2"),
	)

	res := r.Resolve(warranty("111", "HAEW : Warranty : TV", "INV-B"))

	assert.Equal(t, osg.StageAmbiguous, res.Stage)
}

func TestResolve_UnknownTokenCannotNarrow(t *testing.T) {
	r := newResolver(
		product("111", "AC-1", "AC", "INV1", 30000, "S1"),
		product("111", "TV-1", "TV", "INV2", 25000, "S2"),
	)

	res := r.Resolve(warranty("111", "Mobile : Screen Protection : Slab : 20K-40K", ""))

	assert.Equal(t, "", res.Model)
	assert.Equal(t, osg.StageAmbiguous, res.Stage)
}

func TestResolve_UniqueCategoryResultSurvivesEmptySlab(t *testing.T) {
	// GIVEN: Category filter already leaves one model
	// WHEN: The SKU slab contains none of the candidates
	// THEN: The category answer stands; the slab never invalidates it

	r := newResolver(
		product("111", "AC-1", "AC", "INV1", 15000, "S1"),
		product("111", "TV-1", "TV", "INV2", 25000, "S2"),
	)

	res := r.Resolve(warranty("111", "AC : EWP : Warranty : AC : Slab : 50K-60K", ""))

	assert.Equal(t, "AC-1", res.Model)
	assert.Equal(t, osg.StageCategory, res.Stage)
}

func TestResolve_InvalidRateNeverInSlab(t *testing.T) {
	nan := osg.ProductRecord{CustomerID: "111", Model: "TV-X", Category: "TV", InvoiceNumber: "INV0"}
	r := newResolver(nan, product("111", "TV-43", "TV", "INV1", 25000, "S1"))

	res := r.Resolve(warranty("111", "HAEW : Warranty : TV Slab : 10K-30K", ""))

	assert.Equal(t, "TV-43", res.Model)
	assert.Equal(t, osg.StageSlab, res.Stage)
}

func TestResolve_ZeroBoundSlabIsSkipped(t *testing.T) {
	// GIVEN: Two TVs, one of which falls inside a 0K-10K slab
	r := newResolver(
		product("111", "TV-A", "TV", "INV1", 8000, "S1"),
		product("111", "TV-B", "TV", "INV2", 25000, "S2"),
	)

	// WHEN: The SKU carries a slab with a zero lower bound
	res := r.Resolve(warranty("111", "HAEW : Warranty : TV : Slab : 0K-10K", "INV1"))

	// THEN: Neither the slab nor the invoice step runs
	assert.Equal(t, "", res.Model)
	assert.Equal(t, osg.StageAmbiguous, res.Stage)
}

func TestResolve_BlankOnlyModelIsUnresolved(t *testing.T) {
	r := newResolver(product("111", "", "AC", "INV1", 30000, "S1"))

	res := r.Resolve(warranty("111", "AC : EWP : Warranty : AC", ""))

	assert.Equal(t, "", res.Model)
	assert.False(t, res.Stage.Resolved())
}

// =============================================================================
// PRICE SLAB
// =============================================================================

func TestExtractPriceSlab(t *testing.T) {
	tests := []struct {
		sku       string
		low, high int64
		found     bool
	}{
		{"HAEW : Warranty : TV : Slab : 10K-20K", 10000, 20000, true},
		{"Slab:5K-15K", 5000, 15000, true},
		{"Slab  :  0K-10K Dur : 1+2", 0, 10000, true},
		{"Slab : 10-20", 0, 0, false},
		{"no slab here", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		slab, ok := osg.ExtractPriceSlab(tt.sku)
		require.Equal(t, tt.found, ok, tt.sku)
		if ok {
			assert.True(t, slab.Low.Equal(decimal.NewFromInt(tt.low)), tt.sku)
			assert.True(t, slab.High.Equal(decimal.NewFromInt(tt.high)), tt.sku)
		}
	}
}
