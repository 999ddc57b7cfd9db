package generic_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/osg-reconciler/generic"
)

// =============================================================================
// TABLE
// =============================================================================

func TestTable_HeaderTrimmedFirstDuplicateWins(t *testing.T) {
	table := generic.NewTable("OSG",
		[]string{" Customer Mobile ", "Plan Price", "Plan Price", ""},
		[][]string{{"111", "999", "1999", "x"}, {"222"}},
	)

	assert.Equal(t, "Customer Mobile", table.Columns[0])
	assert.Equal(t, "999", table.Value(0, "Plan Price"))
	assert.False(t, table.HasColumn(""))

	// Short rows read as missing cells
	_, ok := table.Cell(1, "Plan Price")
	assert.False(t, ok)
	_, ok = table.Cell(5, "Customer Mobile")
	assert.False(t, ok)

	rec := table.Record(1)
	assert.Equal(t, map[string]string{"Customer Mobile": "222", "Plan Price": ""}, rec)
}

func TestTable_Require(t *testing.T) {
	empty := generic.NewTable("PRODUCT.csv", nil, nil)
	err := empty.Require("Model")
	assert.ErrorIs(t, err, generic.ErrMissingTable)

	table := generic.NewTable("PRODUCT.csv", []string{"Model"}, nil)
	require.NoError(t, table.Require("Model"))

	err = table.Require("Model", "IMEI")
	assert.ErrorIs(t, err, generic.ErrMissingColumn)
	var mc *generic.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "IMEI", mc.Column)
	assert.Equal(t, "PRODUCT.csv", mc.Table)
}

// =============================================================================
// DECIMALS
// =============================================================================

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"25000", "25000", true},
		{" 1,299.50 ", "1299.5", true},
		{"₹999", "999", true},
		{"Rs. 1,499", "1499", true},
		{"Rs 1499", "1499", true},
		{"INR 2,000", "2000", true},
		{"$12.5", "12.5", true},
		{"-500", "-500", true},
		{"abc", "", false},
		{"", "", false},
		{"   ", "", false},
		{"₹", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := generic.ParseDecimal(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.want, generic.FormatDecimal(got))
		})
	}
}

func TestInRange_InclusiveBounds(t *testing.T) {
	low, high := decimal.NewFromInt(10000), decimal.NewFromInt(20000)
	rate := func(s string) decimal.NullDecimal { return generic.ParseDecimal(s) }

	assert.True(t, generic.InRange(rate("10000"), low, high))
	assert.True(t, generic.InRange(rate("20000"), low, high))
	assert.True(t, generic.InRange(rate("15000.5"), low, high))
	assert.False(t, generic.InRange(rate("9999.99"), low, high))
	assert.False(t, generic.InRange(rate("20000.01"), low, high))

	// The not-a-number sentinel is never in range, even a range starting at zero
	assert.False(t, generic.InRange(decimal.NullDecimal{}, decimal.Zero, high))
}
