/*
Package sheet loads uploaded spreadsheets into generic tables and writes
enriched reports back out.

PURPOSE:
  The reconciler itself never touches files. This package is the boundary:
  it turns an .xlsx, .xls or .csv upload into a generic.Table and turns an
  osg.Report into a styled workbook the back office can open directly.

FORMATS:
  .xlsx  excelize, first sheet, raw cell values (no display formatting,
         so 9876543210 stays 9876543210 rather than 9.88E+09). Cells with
         a date number format are the exception: they read as
         2006-01-02, or 2006-01-02 15:04:05 when a time part is set.
  .xls   extrame/xls, first sheet
  .csv   encoding/csv, lazy quotes, ragged rows allowed

HEADER ROW:
  The first non-blank row is the header. Fully blank rows after it are
  dropped. Short rows are kept short; generic.Table treats the missing
  cells as blanks.

SEE ALSO:
  - writer.go: Report export
  - generic/types.go: Table
*/
package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/warp/osg-reconciler/generic"
	"github.com/xuri/excelize/v2"
)

// ReadTable parses an upload, choosing the format by file extension. The
// table is named after the file.
func ReadTable(filename string, r io.Reader) (generic.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return generic.Table{}, fmt.Errorf("read %s: %w", filename, err)
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		rows, err = parseXLSX(data)
	case ".xls":
		rows, err = parseXLS(data)
	case ".csv":
		rows, err = parseCSV(data)
	default:
		return generic.Table{}, fmt.Errorf("%s: %w %q", filename, generic.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return generic.Table{}, fmt.Errorf("parse %s: %w", filename, err)
	}
	return toTable(filepath.Base(filename), rows), nil
}

func parseXLSX(data []byte) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer xl.Close()

	sheetName := xl.GetSheetName(0)
	if sheetName == "" {
		return nil, nil
	}
	rows, err := xl.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if err := foldDates(xl, sheetName, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// foldDates rewrites numeric cells whose style carries a date format from
// an Excel serial to an ISO date.
func foldDates(xl *excelize.File, sheetName string, rows [][]string) error {
	props, err := xl.GetWorkbookProps()
	if err != nil {
		return err
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	isDate := make(map[int]bool)
	for r, row := range rows {
		for c, raw := range row {
			serial, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			styleID, err := xl.GetCellStyle(sheetName, cell)
			if err != nil {
				return err
			}
			dated, seen := isDate[styleID]
			if !seen {
				dated = dateStyle(xl, styleID)
				isDate[styleID] = dated
			}
			if !dated {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			row[c] = formatDate(t)
		}
	}
	return nil
}

func dateStyle(xl *excelize.File, styleID int) bool {
	if styleID == 0 {
		return false
	}
	style, err := xl.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return dateFormatCode(*style.CustomNumFmt)
	}
	return builtinDateFormat(style.NumFmt)
}

// Built-in number formats 14-22 and 45-47 are dates and times; 27-36 and
// 50-58 are the locale date formats.
func builtinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// dateFormatCode looks for d, m, y, h or s in the positive section of a
// format code, outside quoted literals and bracketed locale or color tags.
func dateFormatCode(code string) bool {
	code = strings.ToLower(strings.SplitN(code, ";", 2)[0])
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '\\':
			i++
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case strings.IndexByte("dmyhs", ch) >= 0:
			return true
		}
	}
	return false
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

func parseXLS(data []byte) ([][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if book.NumSheets() == 0 {
		return nil, nil
	}
	ws := book.GetSheet(0)
	if ws == nil {
		return nil, nil
	}

	var rows [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func toTable(name string, rows [][]string) generic.Table {
	start := 0
	for start < len(rows) && blank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return generic.NewTable(name, nil, nil)
	}

	var data [][]string
	for _, r := range rows[start+1:] {
		if !blank(r) {
			data = append(data, r)
		}
	}
	return generic.NewTable(name, rows[start], data)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
