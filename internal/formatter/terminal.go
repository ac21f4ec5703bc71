package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/yildizm/go-termfmt"
	"github.com/yildizm/SheetView/internal/table"
)

// terminalFormatter renders a summary tree and a bordered grid for terminals
type terminalFormatter struct {
	opts     *termfmt.TerminalOptions
	maxWidth int
}

// NewTerminal creates a new terminal formatter
func NewTerminal(options Options) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = options.Color
	opts.Emoji = options.Emoji
	return &terminalFormatter{opts: opts, maxWidth: options.MaxColumnWidth}
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, report)
	f.writeSummary(&b, report)

	if report.View == nil || report.View.Width() == 0 {
		b.WriteString("(empty sheet)\n")
		return []byte(b.String()), nil
	}

	b.WriteString(f.renderGrid(report))
	b.WriteString("\n")

	return []byte(b.String()), nil
}

// writeHeader writes the sheet name inside a box
func (f *terminalFormatter) writeHeader(b *strings.Builder, report *Report) {
	header := "Sheet"
	if report.View != nil && report.View.Name != "" {
		header = report.View.Name
	}
	headerLen := lipgloss.Width(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeSummary writes view counters as a tree
func (f *terminalFormatter) writeSummary(b *strings.Builder, report *Report) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Summary\n")

	items := make([]termfmt.TreeItem, 0, 5)
	if report.Source != "" {
		items = append(items, termfmt.TreeItem{Label: "Source", Value: report.Source})
	}
	items = append(items,
		termfmt.TreeItem{Label: "Rows", Value: fmt.Sprintf("%s of %s", formatNumber(report.Stats.VisibleRows), formatNumber(report.Stats.TotalRows))},
		termfmt.TreeItem{Label: "Columns", Value: formatNumber(report.Stats.Columns)},
	)
	if report.Query != "" {
		items = append(items, termfmt.TreeItem{Label: "Filter", Value: fmt.Sprintf("%q", report.Query)})
	}
	if report.Sort.Active() && report.View != nil {
		items = append(items, termfmt.TreeItem{Label: "Sort", Value: describeSort(report.View, report.Sort)})
	}
	items[len(items)-1].Last = true

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// renderGrid draws the header and data rows with lipgloss
func (f *terminalFormatter) renderGrid(report *Report) string {
	view := report.View
	width := view.Width()

	headers := headerLabels(view)
	for i := range headers {
		label := truncate(headers[i], f.maxWidth)
		if marker := sortMarker(report.Sort, i); marker != "" {
			label += " " + marker
		}
		headers[i] = label
	}

	rows := make([][]string, 0, view.Len())
	for _, row := range view.Data() {
		cells := padded(row, width)
		for i := range cells {
			cells[i] = truncate(cells[i], f.maxWidth)
		}
		rows = append(rows, cells)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numberStyle := cellStyle.Align(lipgloss.Right)
	if f.opts.Color {
		headerStyle = headerStyle.Foreground(lipgloss.Color("39"))
	}

	grid := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < view.Len() && view.Data()[row].Cell(col).Kind == table.KindNumber {
				return numberStyle
			}
			return cellStyle
		})

	if f.opts.Color {
		grid = grid.BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("238")))
	}

	return grid.String()
}
