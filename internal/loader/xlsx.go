package loader

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yildizm/SheetView/internal/table"
)

// xlsxWorkbook decodes Office Open XML workbooks with excelize
type xlsxWorkbook struct {
	file *excelize.File
}

func openXLSX(data []byte) (*xlsxWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &xlsxWorkbook{file: f}, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *xlsxWorkbook) Rows(index int) ([]table.Row, error) {
	name := w.SheetNames()[index]
	raw, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([]table.Row, len(raw))
	for r, values := range raw {
		row := make(table.Row, len(values))
		for c, value := range values {
			if value == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := w.file.GetCellType(name, axis)
			if err != nil {
				return nil, err
			}
			row[c] = xlsxCell(typ, value)
		}
		rows[r] = row
	}
	return rows, nil
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}

// xlsxCell maps a raw cell value to a typed cell. Dates stay as their serial
// number because raw values are read without number formats.
func xlsxCell(typ excelize.CellType, raw string) table.Cell {
	switch typ {
	case excelize.CellTypeBool:
		return table.BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError, excelize.CellTypeDate:
		return table.TextCell(raw)
	default:
		if f, ok := parseDecimal(raw); ok {
			return table.NumberCell(f)
		}
		return table.TextCell(raw)
	}
}
