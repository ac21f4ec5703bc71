package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yildizm/SheetView/internal/table"
)

// DefaultMaxFileSize caps the bytes LoadFile will read
const DefaultMaxFileSize int64 = 50 << 20

// workbook is the decoded container as seen by the loader
type workbook interface {
	SheetNames() []string
	Rows(index int) ([]table.Row, error)
	Close() error
}

func open(data []byte) (workbook, Format, error) {
	format := Detect(data)
	switch format {
	case FormatXLSX:
		wb, err := openXLSX(data)
		if err != nil {
			return nil, format, newLoadError(format, err)
		}
		return wb, format, nil
	case FormatXLS:
		wb, err := openXLS(data)
		if err != nil {
			return nil, format, newLoadError(format, err)
		}
		return wb, format, nil
	default:
		return nil, format, newLoadError(format, fmt.Errorf("unrecognised file signature"))
	}
}

// Load decodes raw spreadsheet bytes and returns the first sheet in
// declaration order, header row first. The container is detected from the
// content, never from a file name. Any failure is reported as
// ErrUnsupportedOrCorruptFile and no partial sheet is returned.
func Load(data []byte) (*table.Sheet, error) {
	wb, format, err := open(data)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = wb.Close()
	}()

	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, newLoadError(format, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := wb.Rows(0)
	if err != nil {
		return nil, newLoadError(format, fmt.Errorf("failed to read sheet %q: %w", names[0], err))
	}

	return table.NewSheet(names[0], usedRange(rows)), nil
}

// usedRange drops blank rows above the first populated row and blank columns
// left of the first populated column, so the header is the first used row.
func usedRange(rows []table.Row) []table.Row {
	start := 0
	for start < len(rows) && blankRow(rows[start]) {
		start++
	}
	rows = rows[start:]

	first := -1
	for _, row := range rows {
		for c, cell := range row {
			if !cell.IsEmpty() {
				if first < 0 || c < first {
					first = c
				}
				break
			}
		}
	}
	if first <= 0 {
		return rows
	}

	shifted := make([]table.Row, len(rows))
	for i, row := range rows {
		if len(row) > first {
			shifted[i] = row[first:]
		} else {
			shifted[i] = table.Row{}
		}
	}
	return shifted
}

func blankRow(row table.Row) bool {
	for _, cell := range row {
		if !cell.IsEmpty() {
			return false
		}
	}
	return true
}

// SheetNames lists every sheet of the workbook in declaration order
func SheetNames(data []byte) ([]string, error) {
	wb, _, err := open(data)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = wb.Close()
	}()
	return wb.SheetNames(), nil
}

// ReadFile reads a spreadsheet file from disk, refusing files larger than
// maxSize bytes (0 means DefaultMaxFileSize).
func ReadFile(ctx context.Context, path string, maxSize int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("file %s is %d bytes, larger than the %d byte limit", cleanPath, info.Size(), maxSize)
	}

	// #nosec G304 - path is chosen by the user on purpose
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", cleanPath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadFile reads path and decodes its first sheet
func LoadFile(ctx context.Context, path string, maxSize int64) (*table.Sheet, error) {
	data, err := ReadFile(ctx, path, maxSize)
	if err != nil {
		return nil, err
	}
	return Load(data)
}
