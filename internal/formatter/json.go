package formatter

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/yildizm/SheetView/internal/table"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the document written by the JSON formatter
type JSONOutput struct {
	Source  string       `json:"source,omitempty"`
	Sheet   string       `json:"sheet"`
	Query   string       `json:"query,omitempty"`
	Sort    *SortOutput  `json:"sort,omitempty"`
	Summary *SummaryJSON `json:"summary"`
	Header  table.Row    `json:"header"`
	Rows    []table.Row  `json:"rows"`
}

// SortOutput describes the active sort
type SortOutput struct {
	Column    int    `json:"column"`
	Name      string `json:"name"`
	Direction string `json:"direction"`
}

// SummaryJSON carries the row counters
type SummaryJSON struct {
	TotalRows   int `json:"total_rows"`
	VisibleRows int `json:"visible_rows"`
	Columns     int `json:"columns"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	output := &JSONOutput{
		Source: report.Source,
		Query:  report.Query,
		Summary: &SummaryJSON{
			TotalRows:   report.Stats.TotalRows,
			VisibleRows: report.Stats.VisibleRows,
			Columns:     report.Stats.Columns,
		},
		Header: table.Row{},
		Rows:   []table.Row{},
	}

	if view := report.View; view != nil {
		output.Sheet = view.Name
		if header := view.Header(); header != nil {
			output.Header = header
		}
		if data := view.Data(); data != nil {
			output.Rows = data
		}
		if report.Sort.Active() {
			output.Sort = &SortOutput{
				Column:    report.Sort.Column,
				Name:      view.Header().Cell(report.Sort.Column).String(),
				Direction: report.Sort.Direction.String(),
			}
		}
	}

	return jsoniter.MarshalIndent(output, "", "  ")
}
