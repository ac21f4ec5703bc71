package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// csvFormatter writes the derived view as CSV, header first
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if report.View == nil {
		return nil, nil
	}

	width := report.View.Width()
	for _, row := range report.View.Rows {
		if err := writer.Write(padded(row, width)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
