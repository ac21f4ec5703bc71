package formatter

import (
	"fmt"

	"github.com/yildizm/SheetView/internal/table"
)

// Report is a derived view together with the state that produced it
type Report struct {
	Source string
	View   *table.Sheet
	Query  string
	Sort   table.SortState
	Stats  table.Stats
}

// NewReport captures the current view of a session
func NewReport(source string, session *table.Session) *Report {
	return &Report{
		Source: source,
		View:   session.View(),
		Query:  session.Query(),
		Sort:   session.SortState(),
		Stats:  session.Stats(),
	}
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// New returns the formatter registered for format
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	case "text", "":
		return NewTerminal(opts), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Options tunes the terminal formatter
type Options struct {
	Color          bool
	Emoji          bool
	MaxColumnWidth int
}
