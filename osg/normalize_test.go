package osg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/osg-reconciler/generic"
	"github.com/warp/osg-reconciler/osg"
)

func TestNormalizeProducts(t *testing.T) {
	table := productTable(
		[]string{" 9876543210.0 ", "  LED-43 ", "tv 18 %", "LG", "00123", "₹25,000", "3.5e+14"},
		[]string{"9876543210", "", "", "", "", "n/a"},
	)

	records, err := osg.NormalizeProducts(table)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "9876543210", first.CustomerID)
	assert.Equal(t, "LED-43", first.Model)
	assert.Equal(t, "TV 18 %", first.Category)
	assert.Equal(t, "00123", first.InvoiceNumber, "leading zeros preserved")
	assert.True(t, first.ItemRate.Valid)
	assert.Equal(t, "25000", first.ItemRate.Decimal.String())
	assert.Equal(t, "350000000000000", first.SerialID)

	// Short row: missing cells become blanks, unparsable rate is the sentinel
	second := records[1]
	assert.Equal(t, "", second.Category)
	assert.Equal(t, "", second.SerialID)
	assert.False(t, second.ItemRate.Valid)
}

func TestNormalizeWarranties_OptionalColumns(t *testing.T) {
	table := generic.NewTable("OSG",
		[]string{"Customer Mobile", "Retailer SKU", "Extra"},
		[][]string{{"9876543210", "HAEW : Warranty : TV", "kept"}},
	)

	records, err := osg.NormalizeWarranties(table)
	require.NoError(t, err)
	require.Len(t, records, 1)

	w := records[0]
	assert.Equal(t, 0, w.Row)
	assert.Equal(t, "", w.InvoiceNumber)
	assert.Equal(t, "", w.PlanPrice)
	assert.Equal(t, "kept", w.Fields["Extra"])
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "9876543210", osg.NormalizeID("9876543210.0"))
	assert.Equal(t, "9876543210", osg.NormalizeID("9.87654321E+09"))
	assert.Equal(t, "INV-10.0", osg.NormalizeID("INV-10.0"))
	assert.Equal(t, "12.5", osg.NormalizeID("12.5"))
	assert.Equal(t, "", osg.NormalizeID("   "))
}
