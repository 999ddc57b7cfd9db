package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/osg-reconciler/osg"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// REPORT EXPORT
// =============================================================================

const (
	ReportSheet = "OSG Mapping"

	headerFill = "4F81BD"
	reviewFill = "ADD8E6" // light blue
	maxWidth   = 60.0
)

// numericColumns are written as numbers when their text parses as one.
var numericColumns = map[string]bool{
	osg.ColItemRate:  true,
	osg.ColPlanPrice: true,
	osg.ColQuantity:  true,
	osg.ColEWSQty:    true,
}

// ContentTypeXLSX is the MIME type of WriteReport output.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteReport renders the report as a single-sheet workbook. Rows needing
// review are filled light blue across every column.
func WriteReport(w io.Writer, report *osg.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ReportSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	reviewStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{reviewFill}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	widths := make([]int, len(report.Columns))
	header := make([]interface{}, len(report.Columns))
	for i, col := range report.Columns {
		header[i] = col
		widths[i] = len(col)
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return err
	}
	if err := styleRow(f, 1, len(report.Columns), headerStyle); err != nil {
		return err
	}

	for i, rec := range report.Records() {
		rowNum := i + 2
		cells := make([]interface{}, len(rec))
		for j, v := range rec {
			cells[j] = cellValue(report.Columns[j], v)
			if len(v) > widths[j] {
				widths[j] = len(v)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(ReportSheet, cell, &cells); err != nil {
			return err
		}
		if report.Rows[i].NeedsReview {
			if err := styleRow(f, rowNum, len(rec), reviewStyle); err != nil {
				return err
			}
		}
	}

	for i, width := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(ReportSheet, name, name, min(float64(width+2), maxWidth)); err != nil {
			return err
		}
	}
	if err := f.SetPanes(ReportSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// cellValue keeps text as text unless the column is numeric and the value
// is a plain number. Integers stay exact; fractions go through float64.
func cellValue(col, v string) interface{} {
	if !numericColumns[col] {
		return v
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	if d.IsInteger() && d.Abs().LessThan(maxExactInt) {
		return d.IntPart()
	}
	f, _ := d.Float64()
	return f
}

var maxExactInt = decimal.New(1, 15)

func styleRow(f *excelize.File, row, cols, style int) error {
	if cols == 0 {
		return nil
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	return f.SetCellStyle(ReportSheet, first, last, style)
}

// WriteCSV renders the report as CSV. Without cell colors the review signal
// travels as two trailing columns.
func WriteCSV(w io.Writer, report *osg.Report) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, report.Columns...), "Needs Review", "Review Reasons")
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, rec := range report.Records() {
		row := report.Rows[i]
		reasons := make([]string, len(row.Reasons))
		for j, r := range row.Reasons {
			reasons[j] = string(r)
		}
		review := "no"
		if row.NeedsReview {
			review = "yes"
		}
		if err := cw.Write(append(rec, review, strings.Join(reasons, ";"))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
