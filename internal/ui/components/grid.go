package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/yildizm/SheetView/internal/table"
)

// GridStyles holds the styles a Grid renders with
type GridStyles struct {
	Header       lipgloss.Style
	SortedHeader lipgloss.Style
	Cell         lipgloss.Style
	AltRow       lipgloss.Style
	CursorRow    lipgloss.Style
	CursorCell   lipgloss.Style
	Match        lipgloss.Style
	Border       lipgloss.Style
	Empty        lipgloss.Style
}

// DefaultGridStyles returns uncoloured grid styles
func DefaultGridStyles() GridStyles {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return GridStyles{
		Header:       cell.Bold(true),
		SortedHeader: cell.Bold(true).Underline(true),
		Cell:         cell,
		AltRow:       cell,
		CursorRow:    cell.Reverse(true),
		CursorCell:   cell.Reverse(true).Bold(true),
		Match:        cell,
		Border:       lipgloss.NewStyle(),
		Empty:        lipgloss.NewStyle().Italic(true),
	}
}

// Grid renders a window of a sheet with a cursor
type Grid struct {
	Sheet          *table.Sheet
	Sort           table.SortState
	Query          string
	AscMarker      string
	DescMarker     string
	MaxColumnWidth int
	Width          int
	Height         int
	Styles         GridStyles

	CursorRow int
	CursorCol int
	RowOffset int
	ColOffset int
}

const (
	minColumnWidth = 3
	// top border, header, header separator and bottom border
	gridChrome = 4
	// padding plus the separator each column adds
	columnChrome = 3
)

// NewGrid creates a grid over sheet
func NewGrid(sheet *table.Sheet, width, height int) *Grid {
	return &Grid{
		Sheet:          sheet,
		Sort:           table.NoSort,
		AscMarker:      "▲",
		DescMarker:     "▼",
		MaxColumnWidth: 24,
		Width:          width,
		Height:         height,
		Styles:         DefaultGridStyles(),
	}
}

// Columns returns the number of columns the grid can address
func (g *Grid) Columns() int {
	return g.Sheet.Width()
}

// Rows returns the number of data rows
func (g *Grid) Rows() int {
	return g.Sheet.Len()
}

// PageRows returns how many data rows fit in the grid height
func (g *Grid) PageRows() int {
	rows := g.Height - gridChrome
	if rows < 1 {
		rows = 1
	}
	return rows
}

// MoveCursor moves the cursor by the given deltas and keeps it visible
func (g *Grid) MoveCursor(dRow, dCol int) {
	g.CursorRow = clamp(g.CursorRow+dRow, 0, g.Rows()-1)
	g.CursorCol = clamp(g.CursorCol+dCol, 0, g.Columns()-1)
	g.EnsureVisible()
}

// SetCursor places the cursor and keeps it visible
func (g *Grid) SetCursor(row, col int) {
	g.CursorRow = row
	g.CursorCol = col
	g.MoveCursor(0, 0)
}

// EnsureVisible scrolls the window so the cursor is on screen
func (g *Grid) EnsureVisible() {
	page := g.PageRows()
	if g.CursorRow < g.RowOffset {
		g.RowOffset = g.CursorRow
	}
	if g.CursorRow >= g.RowOffset+page {
		g.RowOffset = g.CursorRow - page + 1
	}
	g.RowOffset = clamp(g.RowOffset, 0, max(0, g.Rows()-page))

	if g.CursorCol < g.ColOffset {
		g.ColOffset = g.CursorCol
	}
	for g.ColOffset < g.CursorCol && g.CursorCol >= g.ColOffset+len(g.visibleColumns()) {
		g.ColOffset++
	}
	g.ColOffset = clamp(g.ColOffset, 0, max(0, g.Columns()-1))
}

// CurrentRow returns the row under the cursor, or nil when there is none
func (g *Grid) CurrentRow() table.Row {
	data := g.Sheet.Data()
	if g.CursorRow < 0 || g.CursorRow >= len(data) {
		return nil
	}
	return data[g.CursorRow]
}

// columnWidth returns the display width of column c capped at MaxColumnWidth
func (g *Grid) columnWidth(c int) int {
	width := runewidth.StringWidth(g.headerLabel(c))
	for _, row := range g.Sheet.Data() {
		if w := runewidth.StringWidth(row.Cell(c).String()); w > width {
			width = w
		}
		if width >= g.MaxColumnWidth {
			break
		}
	}
	return clamp(width, minColumnWidth, max(minColumnWidth, g.MaxColumnWidth))
}

// visibleColumns returns the column indexes that fit from ColOffset on
func (g *Grid) visibleColumns() []int {
	cols := make([]int, 0, 8)
	used := 1
	for c := g.ColOffset; c < g.Columns(); c++ {
		w := g.columnWidth(c) + columnChrome
		if len(cols) > 0 && g.Width > 0 && used+w > g.Width {
			break
		}
		cols = append(cols, c)
		used += w
	}
	return cols
}

// headerLabel returns the header text of column c with its sort marker
func (g *Grid) headerLabel(c int) string {
	label := g.Sheet.Header().Cell(c).String()
	if label == "" {
		label = ColumnName(c)
	}
	if g.Sort.Active() && g.Sort.Column == c {
		marker := g.AscMarker
		if g.Sort.Direction == table.DirectionDescending {
			marker = g.DescMarker
		}
		label += " " + marker
	}
	return label
}

// Render renders the visible window of the sheet
func (g *Grid) Render() string {
	if g.Sheet == nil || g.Columns() == 0 {
		return g.Styles.Empty.Render("No data")
	}

	cols := g.visibleColumns()
	widths := make([]int, len(cols))
	headers := make([]string, len(cols))
	for i, c := range cols {
		widths[i] = g.columnWidth(c)
		headers[i] = Truncate(g.headerLabel(c), widths[i])
	}

	data := g.Sheet.Data()
	end := min(len(data), g.RowOffset+g.PageRows())
	rows := make([][]string, 0, max(0, end-g.RowOffset))
	for r := g.RowOffset; r < end; r++ {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = Truncate(data[r].Cell(c).String(), widths[i])
		}
		rows = append(rows, cells)
	}

	t := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(g.Styles.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return g.cellStyle(row, col, cols, widths)
		})

	out := t.String()
	if len(rows) == 0 {
		out += "\n" + g.Styles.Empty.Render("No matching rows")
	}
	return out
}

// cellStyle picks the style of a rendered cell
func (g *Grid) cellStyle(row, col int, cols, widths []int) lipgloss.Style {
	if col < 0 || col >= len(cols) {
		return g.Styles.Cell
	}
	width := widths[col] + 2

	if row == lgtable.HeaderRow {
		if g.Sort.Active() && g.Sort.Column == cols[col] {
			return g.Styles.SortedHeader.Width(width)
		}
		return g.Styles.Header.Width(width)
	}

	dataRow := g.RowOffset + row
	cell := g.Sheet.Data()[dataRow].Cell(cols[col])

	var style lipgloss.Style
	switch {
	case dataRow == g.CursorRow && cols[col] == g.CursorCol:
		style = g.Styles.CursorCell
	case dataRow == g.CursorRow:
		style = g.Styles.CursorRow
	case strings.TrimSpace(g.Query) != "" && table.Matches(table.Row{cell}, g.Query):
		style = g.Styles.Match
	case row%2 == 1:
		style = g.Styles.AltRow
	default:
		style = g.Styles.Cell
	}
	if cell.Kind == table.KindNumber {
		style = style.Align(lipgloss.Right)
	}
	return style.Width(width)
}

// Truncate shortens s to at most width terminal columns
func Truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// ColumnName returns the spreadsheet letter name of a zero-based column
func ColumnName(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
