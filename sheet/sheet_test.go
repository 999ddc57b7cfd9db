package sheet_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/osg-reconciler/generic"
	"github.com/warp/osg-reconciler/osg"
	"github.com/warp/osg-reconciler/sheet"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func xlsxBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func sampleReport(t *testing.T) *osg.Report {
	t.Helper()
	products := generic.NewTable("PRODUCT",
		[]string{"Customer Mobile", "Model", "Category", "Brand", "Invoice Number", "Item Rate", "IMEI"},
		[][]string{{"111", "TV-43", "TV", "LG", "BLR-1", "30000", "SN1"}},
	)
	warranties := generic.NewTable("OSG",
		[]string{"Customer Mobile", "Retailer SKU", "Plan Price"},
		[][]string{
			{"111", "HAEW : Warranty : TV : Dur : 1+2", "999"},
			{"222", "HAEW : Warranty : TV", "999"},
		},
	)
	report, err := osg.NewReconciler(nil, nil).Run(context.Background(), products, warranties)
	require.NoError(t, err)
	return report
}

// =============================================================================
// READER
// =============================================================================

func TestReadTable_XLSXKeepsRawNumbers(t *testing.T) {
	// GIVEN: A workbook with a numeric phone cell and a leading blank row
	data := xlsxBytes(t, [][]interface{}{
		{},
		{"Customer Mobile", "Item Rate"},
		{9876543210, 25000.5},
		{},
	})

	table, err := sheet.ReadTable("PRODUCT.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "PRODUCT.xlsx", table.Name)
	assert.Equal(t, []string{"Customer Mobile", "Item Rate"}, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "9876543210", table.Value(0, "Customer Mobile"))
	assert.Equal(t, "25000.5", table.Value(0, "Item Rate"))
}

func TestReadTable_XLSXDateCellsReadAsDates(t *testing.T) {
	// GIVEN: A workbook whose Date cells hold Excel serials with date styles
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Customer Mobile", "Date", "Plan Price"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{
		9876543210, time.Date(2025, 5, 27, 0, 0, 0, 0, time.UTC), 1499,
	}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{
		9876543211, time.Date(2025, 5, 28, 14, 30, 0, 0, time.UTC), 1999,
	}))

	dayFirst := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dayFirst})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "A4", 9876543212))
	require.NoError(t, f.SetCellValue("Sheet1", "B4", 45806))
	require.NoError(t, f.SetCellStyle("Sheet1", "B4", "B4", dateStyle))

	money := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &money})
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Sheet1", "C4", 2499))
	require.NoError(t, f.SetCellStyle("Sheet1", "C4", "C4", moneyStyle))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	// WHEN: Reading it back
	table, err := sheet.ReadTable("OSG.xlsx", &buf)
	require.NoError(t, err)

	// THEN: Dates come back as dates, identifiers and amounts stay raw
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "2025-05-27", table.Value(0, "Date"))
	assert.Equal(t, "2025-05-28 14:30:00", table.Value(1, "Date"))
	assert.Equal(t, "2025-05-29", table.Value(2, "Date"))
	assert.Equal(t, "9876543210", table.Value(0, "Customer Mobile"))
	assert.Equal(t, "1499", table.Value(0, "Plan Price"))
	assert.Equal(t, "2499", table.Value(2, "Plan Price"))
}

func TestReadTable_CSV(t *testing.T) {
	data := "\xef\xbb\xbfCustomer Mobile,Retailer SKU\n111,\"HAEW : Warranty : TV, Dur : 1+2\"\n222\n"

	table, err := sheet.ReadTable("osg.CSV", bytes.NewBufferString(data))
	require.NoError(t, err)

	assert.True(t, table.HasColumn("Customer Mobile"))
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "HAEW : Warranty : TV, Dur : 1+2", table.Value(0, "Retailer SKU"))
	_, ok := table.Cell(1, "Retailer SKU")
	assert.False(t, ok)
}

func TestReadTable_UnsupportedFormat(t *testing.T) {
	_, err := sheet.ReadTable("report.pdf", bytes.NewBufferString("%PDF"))

	assert.ErrorIs(t, err, generic.ErrUnsupportedFormat)
	assert.True(t, generic.IsClientError(err))
}

func TestReadTable_EmptyFileIsEmptyTable(t *testing.T) {
	table, err := sheet.ReadTable("osg.csv", bytes.NewBuffer(nil))
	require.NoError(t, err)

	assert.True(t, table.IsEmpty())
	assert.ErrorIs(t, table.Require("Customer Mobile"), generic.ErrMissingTable)
}

// =============================================================================
// WRITER
// =============================================================================

func TestWriteReport_HighlightsReviewRows(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, sheet.WriteReport(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, osg.OutputColumns[0], rows[0][0])
	assert.Equal(t, "111", rows[1][0])

	okStyle, err := f.GetCellStyle(sheet.ReportSheet, "A2")
	require.NoError(t, err)
	reviewStyle, err := f.GetCellStyle(sheet.ReportSheet, "A3")
	require.NoError(t, err)
	assert.NotEqual(t, okStyle, reviewStyle)

	style, err := f.GetStyle(reviewStyle)
	require.NoError(t, err)
	require.Len(t, style.Fill.Color, 1)
	assert.Contains(t, strings.ToUpper(style.Fill.Color[0]), "ADD8E6")
}

func TestWriteReport_NumericColumnsAreNumbers(t *testing.T) {
	// GIVEN: A report with numeric and non-numeric amounts
	report := &osg.Report{
		Columns: []string{osg.ColCustomerMobile, osg.ColPlanPrice, osg.ColItemRate, osg.ColQuantity},
		Rows: []osg.ReportRow{
			{Values: map[string]string{
				osg.ColCustomerMobile: "9876543210", osg.ColPlanPrice: "999",
				osg.ColItemRate: "25000.5", osg.ColQuantity: "1",
			}},
			{Values: map[string]string{
				osg.ColCustomerMobile: "9876543211", osg.ColPlanPrice: "abc",
			}},
		},
	}

	// WHEN: Writing the workbook
	var buf bytes.Buffer
	require.NoError(t, sheet.WriteReport(&buf, report))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	cellType := func(cell string) excelize.CellType {
		ct, err := f.GetCellType(sheet.ReportSheet, cell)
		require.NoError(t, err)
		return ct
	}

	// THEN: Amounts and quantities are number cells, identifiers and junk stay text
	assert.Equal(t, excelize.CellTypeSharedString, cellType("A2"))
	assert.Equal(t, excelize.CellTypeUnset, cellType("B2"))
	assert.Equal(t, excelize.CellTypeUnset, cellType("C2"))
	assert.Equal(t, excelize.CellTypeUnset, cellType("D2"))
	assert.Equal(t, excelize.CellTypeSharedString, cellType("B3"))

	rate, err := f.GetCellValue(sheet.ReportSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "25000.5", rate)
}

func TestWriteCSV_CarriesReviewColumns(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, sheet.WriteCSV(&buf, report))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	n := len(osg.OutputColumns)
	assert.Equal(t, "Needs Review", records[0][n])
	assert.Equal(t, "no", records[1][n])
	assert.Equal(t, "yes", records[2][n])
	assert.Equal(t, "unresolved_model;missing_serial", records[2][n+1])
}
