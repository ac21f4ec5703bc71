package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/extrame/xls"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yildizm/SheetView/internal/table"
)

// buildWorkbook writes rows into the default sheet of a fresh workbook
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &values))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadWellFormed(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Name", "Age"},
		{"Bob", 30},
		{"Amy", 25},
	})

	sheet, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, []string{"Name", "Age"}, sheet.Header().Strings())
	require.Equal(t, 2, sheet.Len())
	assert.Equal(t, []string{"Bob", "30"}, sheet.Data()[0].Strings())
	assert.Equal(t, []string{"Amy", "25"}, sheet.Data()[1].Strings())
}

func TestLoadPreservesTypes(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Text", "Int", "Float", "Bool"},
		{"Bob", 30, 2.5, true},
		{"Amy", 25, -1.25, false},
	})

	sheet, err := Load(data)
	require.NoError(t, err)

	row := sheet.Data()[0]
	assert.Equal(t, table.TextCell("Bob"), row.Cell(0))
	assert.Equal(t, table.NumberCell(30), row.Cell(1))
	assert.Equal(t, table.NumberCell(2.5), row.Cell(2))
	assert.Equal(t, table.BoolCell(true), row.Cell(3))
	assert.Equal(t, table.BoolCell(false), sheet.Data()[1].Cell(3))
}

func TestLoadRaggedAndBlankCells(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"A", "B", "C"},
		{"x", "", "z"},
		{"only"},
	})

	sheet, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, 2, sheet.Len())

	assert.True(t, sheet.Data()[0].Cell(1).IsEmpty())
	assert.Equal(t, "z", sheet.Data()[0].Cell(2).String())
	assert.Len(t, sheet.Data()[1], 1)
	assert.True(t, sheet.Data()[1].Cell(2).IsEmpty())
}

func TestLoadSelectsFirstDeclaredSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Zeta"))
	require.NoError(t, f.SetCellValue("Zeta", "A1", "from zeta"))
	idx, err := f.NewSheet("Alpha")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Alpha", "A1", "from alpha"))
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	sheet, err := Load(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Zeta", sheet.Name)
	assert.Equal(t, "from zeta", sheet.Header().Cell(0).String())

	names, err := SheetNames(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "Alpha"}, names)
}

func TestLoadIsIdempotent(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{{"h"}, {1}, {2}})

	first, err := Load(data)
	require.NoError(t, err)
	second, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestLoadRejectsGarbage(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format Format
	}{
		{"empty", nil, FormatUnknown},
		{"plain text", []byte("Name,Age\nBob,30\n"), FormatUnknown},
		{"broken zip", append([]byte{'P', 'K', 0x03, 0x04}, []byte("definitely not a zip archive")...), FormatXLSX},
		{"broken ole", append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...), FormatXLS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := Load(tt.data)
			require.Error(t, err)
			assert.Nil(t, sheet)
			assert.True(t, errors.Is(err, ErrUnsupportedOrCorruptFile))

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.format, loadErr.Format)
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatXLSX, Detect([]byte("PK\x03\x04rest")))
	assert.Equal(t, FormatXLS, Detect([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0}))
	assert.Equal(t, FormatUnknown, Detect([]byte("PK")))
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts("report.xlsx"))
	assert.True(t, Accepts("/tmp/OLD.XLS"))
	assert.False(t, Accepts("notes.csv"))
	assert.False(t, Accepts("xlsx"))
}

func TestXLSCell(t *testing.T) {
	assert.Equal(t, table.NumberCell(42), xlsCell("42"))
	assert.Equal(t, table.NumberCell(0.5), xlsCell("0.5"))
	assert.Equal(t, table.BoolCell(true), xlsCell("TRUE"))
	assert.Equal(t, table.TextCell("true story"), xlsCell("true story"))
	assert.True(t, xlsCell("").IsEmpty())

	assert.Equal(t, table.NumberCell(-1500), xlsCell("-1.5e3"))
	assert.Equal(t, table.NumberCell(0.25), xlsCell(".25"))

	// text that ParseFloat would accept stays text
	for _, s := range []string{"NaN", "nan", "Inf", "-Inf", "Infinity", "0x1p-2", "0X10", "1e999", "1_000"} {
		assert.Equal(t, table.TextCell(s), xlsCell(s), s)
	}

	// formatted numbers arrive as text from the BIFF reader
	for _, s := range []string{"1,234", "12%", "2024-01-31"} {
		assert.Equal(t, table.TextCell(s), xlsCell(s), s)
	}
}

func TestXLSCellTextSurvivesFilterAndJSON(t *testing.T) {
	sheet := table.NewSheet("S", []table.Row{{xlsCell("Status")}, {xlsCell("Infinity")}, {xlsCell("nan")}})

	assert.Equal(t, 1, table.Filter(sheet, "infin").Len())

	_, err := jsoniter.Marshal(sheet.Data())
	assert.NoError(t, err)
}

func TestLoadFindsHeaderInUsedRange(t *testing.T) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	require.NoError(t, f.SetSheetRow("Sheet1", "B3", &[]interface{}{"Name", "Age"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "B4", &[]interface{}{"Bob", 30}))
	require.NoError(t, f.SetSheetRow("Sheet1", "C5", &[]interface{}{25}))
	require.NoError(t, f.SetCellValue("Sheet1", "B6", "Amy"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheet, err := Load(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age"}, sheet.Header().Strings())
	assert.Equal(t, 2, sheet.Columns())
	require.Equal(t, 3, sheet.Len())
	assert.Equal(t, []string{"Bob", "30"}, sheet.Data()[0].Strings())
	assert.True(t, sheet.Data()[1].Cell(0).IsEmpty())
	assert.Equal(t, table.NumberCell(25), sheet.Data()[1].Cell(1))
	assert.Equal(t, "Amy", sheet.Data()[2].Cell(0).String())

	sorted, state := table.SortByColumn(sheet, 1, table.NoSort)
	assert.Equal(t, table.SortState{Column: 1, Direction: table.DirectionAscending}, state)
	assert.Equal(t, table.NumberCell(25), sorted.Data()[0].Cell(1))
}

func TestUsedRange(t *testing.T) {
	tests := []struct {
		name string
		rows []table.Row
		want []table.Row
	}{
		{
			name: "empty",
			rows: nil,
			want: []table.Row{},
		},
		{
			name: "all blank",
			rows: []table.Row{{}, {table.EmptyCell()}},
			want: []table.Row{},
		},
		{
			name: "already at origin",
			rows: []table.Row{{table.TextCell("a")}, {}, {table.TextCell("b")}},
			want: []table.Row{{table.TextCell("a")}, {}, {table.TextCell("b")}},
		},
		{
			name: "offset block",
			rows: []table.Row{
				{},
				{table.EmptyCell(), table.EmptyCell(), table.TextCell("h")},
				{table.EmptyCell(), table.TextCell("x")},
				{table.EmptyCell()},
			},
			want: []table.Row{
				{table.EmptyCell(), table.TextCell("h")},
				{table.TextCell("x")},
				{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usedRange(tt.rows)
			assert.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, len(tt.want[i]), len(got[i]), "row %d", i)
				for c := range tt.want[i] {
					assert.Equal(t, tt.want[i][c], got[i][c], "row %d col %d", i, c)
				}
			}
		})
	}
}

func TestLoadXLSFixture(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "Table.xls"))
	require.NoError(t, err)
	assert.Equal(t, FormatXLS, Detect(data))

	names, err := SheetNames(data)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "Table", names[0])

	sheet, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, "Table", sheet.Name)
	assert.Equal(t, []string{"Code", "Name", "Description"}, sheet.Header().Strings())
	require.Equal(t, 11, sheet.Len())

	// data rows keep the order the BIFF reader yields them in
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	require.NoError(t, err)
	src := book.GetSheet(0)
	require.NotNil(t, src)
	for i, row := range sheet.Data() {
		want := table.EmptyCell()
		if r := src.Row(i + 1); r != nil {
			want = xlsCell(r.Col(0))
		}
		assert.Equal(t, want, row.Cell(0), "row %d", i+1)
	}
}

func TestTrimRows(t *testing.T) {
	rows := []table.Row{
		{table.TextCell("a")},
		trimRow(table.Row{table.TextCell("b"), table.EmptyCell(), table.EmptyCell()}),
		{},
		{},
	}
	got := trimRows(rows)
	require.Len(t, got, 2)
	assert.Len(t, got[1], 1)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, [][]interface{}{{"Name"}, {"Amy"}}), 0o600))

	sheet, err := LoadFile(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, sheet.Len())

	_, err = LoadFile(context.Background(), path, 10)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedOrCorruptFile))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadFile(ctx, path, 0)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = LoadFile(context.Background(), dir, 0)
	assert.Error(t, err)
}

func TestLoadFileIgnoresExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "misnamed.xls")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, [][]interface{}{{"h"}, {"v"}}), 0o600))

	sheet, err := LoadFile(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, "v", sheet.Data()[0].Cell(0).String())
}
