package loader

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/extrame/xls"
	"github.com/yildizm/SheetView/internal/table"
)

const xlsCharset = "utf-8"

// xlsWorkbook decodes legacy BIFF (.xls) workbooks
type xlsWorkbook struct {
	book *xls.WorkBook
}

func openXLS(data []byte) (wb *xlsWorkbook, err error) {
	// the BIFF reader panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("xls decoder panic: %v", r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), xlsCharset)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("xls decoder returned no workbook")
	}
	return &xlsWorkbook{book: book}, nil
}

func (w *xlsWorkbook) SheetNames() []string {
	names := make([]string, 0, w.book.NumSheets())
	for i := 0; i < w.book.NumSheets(); i++ {
		if sheet := w.book.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

func (w *xlsWorkbook) Rows(index int) (rows []table.Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("xls decoder panic: %v", r)
		}
	}()

	sheet := w.book.GetSheet(index)
	if sheet == nil {
		return nil, fmt.Errorf("sheet %d not found", index)
	}

	rows = make([]table.Row, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		src := sheet.Row(r)
		if src == nil {
			rows = append(rows, table.Row{})
			continue
		}
		row := make(table.Row, src.LastCol())
		for c := src.FirstCol(); c < src.LastCol(); c++ {
			row[c] = xlsCell(src.Col(c))
		}
		rows = append(rows, trimRow(row))
	}
	return trimRows(rows), nil
}

func (w *xlsWorkbook) Close() error {
	return nil
}

// xlsCell recovers a typed cell from the formatted text the BIFF reader yields.
// Number formats are already applied, so dates, percentages and grouped
// thousands arrive as text.
func xlsCell(s string) table.Cell {
	switch s {
	case "":
		return table.EmptyCell()
	case "TRUE":
		return table.BoolCell(true)
	case "FALSE":
		return table.BoolCell(false)
	}
	if f, ok := parseDecimal(s); ok {
		return table.NumberCell(f)
	}
	return table.TextCell(s)
}

// decimalPattern matches plain decimal notation. ParseFloat alone would also
// take NaN, Inf and hex floats.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// parseDecimal parses s as a finite decimal number
func parseDecimal(s string) (float64, bool) {
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// trimRow drops trailing empty cells
func trimRow(row table.Row) table.Row {
	end := len(row)
	for end > 0 && row[end-1].IsEmpty() {
		end--
	}
	return row[:end]
}

// trimRows drops trailing empty rows
func trimRows(rows []table.Row) []table.Row {
	end := len(rows)
	for end > 0 && len(rows[end-1]) == 0 {
		end--
	}
	return rows[:end]
}
