package table

// Row is a positional sequence of cells. Rows may be shorter than the header;
// missing trailing cells read as empty.
type Row []Cell

// Cell returns the cell at index i, or an empty cell when i is out of range
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r) {
		return EmptyCell()
	}
	return r[i]
}

// Strings returns the display text of every cell in the row
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.String()
	}
	return out
}

// Sheet is an ordered set of rows where row 0 is the header row.
//
// Sheets and their rows are treated as immutable: Filter and SortByColumn
// return new Sheets and never write through to the input.
type Sheet struct {
	Name string
	Rows []Row
}

// NewSheet creates a sheet from header-first rows
func NewSheet(name string, rows []Row) *Sheet {
	return &Sheet{Name: name, Rows: rows}
}

// FromValues builds a sheet from plain Go values, header first
func FromValues(name string, values [][]interface{}) *Sheet {
	rows := make([]Row, len(values))
	for i, src := range values {
		row := make(Row, len(src))
		for j, v := range src {
			row[j] = CellOf(v)
		}
		rows[i] = row
	}
	return NewSheet(name, rows)
}

// Header returns the header row, or nil for a sheet without rows
func (s *Sheet) Header() Row {
	if s == nil || len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[0]
}

// Data returns the data rows (every row after the header)
func (s *Sheet) Data() []Row {
	if s == nil || len(s.Rows) < 2 {
		return nil
	}
	return s.Rows[1:]
}

// Len returns the number of data rows
func (s *Sheet) Len() int {
	return len(s.Data())
}

// Columns returns the number of columns defined by the header row
func (s *Sheet) Columns() int {
	return len(s.Header())
}

// Width returns the widest row length, which can exceed Columns for ragged input
func (s *Sheet) Width() int {
	if s == nil {
		return 0
	}
	width := 0
	for _, r := range s.Rows {
		if len(r) > width {
			width = len(r)
		}
	}
	return width
}

// HasColumn reports whether index addresses a header column
func (s *Sheet) HasColumn(index int) bool {
	return index >= 0 && index < s.Columns()
}

// withData returns a new sheet sharing the header and using the given data rows
func (s *Sheet) withData(data []Row) *Sheet {
	rows := make([]Row, 0, len(data)+1)
	rows = append(rows, s.Rows[0])
	rows = append(rows, data...)
	return &Sheet{Name: s.Name, Rows: rows}
}
