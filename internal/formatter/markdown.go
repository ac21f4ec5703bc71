package formatter

import (
	"fmt"
	"strings"
)

// markdownFormatter formats output as a GitHub-flavoured Markdown table
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	title := "Sheet"
	if report.View != nil && report.View.Name != "" {
		title = report.View.Name
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	f.writeSummary(&b, report)

	if report.View == nil || len(report.View.Rows) == 0 {
		b.WriteString("_No rows._\n")
		return []byte(b.String()), nil
	}

	f.writeTable(&b, report)

	return []byte(b.String()), nil
}

// writeSummary writes the view counters as a bullet list
func (f *markdownFormatter) writeSummary(b *strings.Builder, report *Report) {
	if report.Source != "" {
		fmt.Fprintf(b, "- **Source:** `%s`\n", report.Source)
	}
	fmt.Fprintf(b, "- **Rows:** %s of %s\n", formatNumber(report.Stats.VisibleRows), formatNumber(report.Stats.TotalRows))
	fmt.Fprintf(b, "- **Columns:** %d\n", report.Stats.Columns)
	if report.Query != "" {
		fmt.Fprintf(b, "- **Filter:** `%s`\n", report.Query)
	}
	if report.Sort.Active() && report.View != nil {
		fmt.Fprintf(b, "- **Sort:** %s\n", describeSort(report.View, report.Sort))
	}
	b.WriteString("\n")
}

// writeTable writes the header and data rows
func (f *markdownFormatter) writeTable(b *strings.Builder, report *Report) {
	view := report.View
	width := view.Width()
	if width == 0 {
		return
	}

	headers := headerLabels(view)
	for i := range headers {
		headers[i] = escapeMarkdownCell(headers[i])
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", width) + "\n")

	for _, row := range view.Data() {
		cells := padded(row, width)
		for i := range cells {
			cells[i] = escapeMarkdownCell(cells[i])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

// escapeMarkdownCell keeps cell text on one line and inside its column
func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
