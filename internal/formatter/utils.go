package formatter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yildizm/SheetView/internal/emoji"
	"github.com/yildizm/SheetView/internal/table"
)

const ellipsis = "…"

// formatNumber formats numbers with commas for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return addCommas(fmt.Sprintf("%d", n))
}

// addCommas adds commas to number strings
func addCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	return addCommas(s[:len(s)-3]) + "," + s[len(s)-3:]
}

// truncate shortens s to at most width terminal columns
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

// sortMarker returns the arrow drawn next to the sorted column header
func sortMarker(state table.SortState, column int) string {
	if !state.Active() || state.Column != column {
		return ""
	}
	if state.Direction == table.DirectionDescending {
		return emoji.GetEmoji("sort_desc")
	}
	return emoji.GetEmoji("sort_asc")
}

// headerLabels returns the header texts padded to the view width
func headerLabels(view *table.Sheet) []string {
	width := view.Width()
	labels := make([]string, width)
	header := view.Header()
	for i := range labels {
		labels[i] = header.Cell(i).String()
		if labels[i] == "" {
			labels[i] = columnName(i)
		}
	}
	return labels
}

// columnName returns the spreadsheet letter name of a zero-based column
func columnName(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}

// padded returns the display text of row, padded to width cells
func padded(row table.Row, width int) []string {
	out := make([]string, width)
	for i := range out {
		out[i] = row.Cell(i).String()
	}
	return out
}

// describeSort renders a sort state for summaries
func describeSort(view *table.Sheet, state table.SortState) string {
	if !state.Active() {
		return "none"
	}
	name := view.Header().Cell(state.Column).String()
	if name == "" {
		name = columnName(state.Column)
	}
	return fmt.Sprintf("%s (%s)", name, state.Direction)
}
