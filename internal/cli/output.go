package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/yildizm/SheetView/internal/emoji"
	"github.com/yildizm/SheetView/internal/formatter"
	"github.com/yildizm/SheetView/internal/loader"
	"github.com/yildizm/SheetView/internal/logger"
	"github.com/yildizm/SheetView/internal/monitor"
	"github.com/yildizm/SheetView/internal/table"
	"github.com/yildizm/SheetView/internal/ui"
)

// stdoutIsTerminal reports whether stdout is attached to a terminal
var stdoutIsTerminal = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorEnabled decides whether printed output may carry ANSI colors
func colorEnabled() bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch GetGlobalConfig().Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return stdoutIsTerminal()
	}
}

// getFormatter returns the formatter for the given output format
func getFormatter(format string) (formatter.Formatter, error) {
	return formatter.New(format, formatter.Options{
		Color:          colorEnabled(),
		Emoji:          !emoji.IsEmojiDisabled(),
		MaxColumnWidth: GetGlobalConfig().View.MaxColumnWidth,
	})
}

// sortStateFromFlags converts a 1-based column flag to a sort state.
// Zero means unsorted.
func sortStateFromFlags(column int, desc bool) (table.SortState, error) {
	if column < 0 {
		return table.NoSort, fmt.Errorf("sort column must be positive, got %d", column)
	}
	if column == 0 {
		return table.NoSort, nil
	}
	direction := table.DirectionAscending
	if desc {
		direction = table.DirectionDescending
	}
	return table.SortState{Column: column - 1, Direction: direction}, nil
}

// validateInputPath checks a spreadsheet path given on the command line
func validateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}
	if !loader.Accepts(cleanPath) {
		return fmt.Errorf("unsupported file type %q (accepted: %s)",
			filepath.Ext(cleanPath), strings.Join(loader.AcceptedExtensions, ", "))
	}

	return nil
}

// pipeline times the read, decode, view and render steps of printed output
var pipeline = monitor.NewTracker()

// loadSession reads path into session, keeping its query and sort state
func loadSession(ctx context.Context, session *table.Session, path string) error {
	var data []byte
	err := pipeline.Track(monitor.OperationRead, func() (err error) {
		data, err = loader.ReadFile(ctx, filepath.Clean(path), GetGlobalConfig().Loader.MaxFileSize)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	var sheet *table.Sheet
	err = pipeline.Track(monitor.OperationDecode, func() (err error) {
		sheet, err = loader.Load(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	pipeline.AddRows(sheet.Len())
	return pipeline.Track(monitor.OperationView, func() error {
		session.Load(sheet)
		return nil
	})
}

// applyViewFlags installs the query and sort given on the command line
func applyViewFlags(session *table.Session, query string, sort table.SortState) error {
	if sort.Active() && !session.Sheet().HasColumn(sort.Column) {
		return fmt.Errorf("sort column %d out of range (sheet has %d columns)",
			sort.Column+1, session.Sheet().Columns())
	}
	return pipeline.Track(monitor.OperationView, func() error {
		session.SetQuery(query)
		if sort.Active() {
			session.SetSort(sort)
		}
		return nil
	})
}

// renderSession formats the session's current view
func renderSession(source string, session *table.Session) ([]byte, error) {
	f, err := getFormatter(getOutputFormat())
	if err != nil {
		return nil, fmt.Errorf("failed to get formatter: %w", err)
	}

	var output []byte
	err = pipeline.Track(monitor.OperationRender, func() (err error) {
		output, err = f.Format(formatter.NewReport(source, session))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}
	return output, nil
}

// logPipelineSummary writes the step timings when verbose
func logPipelineSummary() {
	log := newLogger("monitor")
	for _, m := range pipeline.Snapshot() {
		log.DebugWithFields("pipeline step", []logger.Field{
			logger.F("op", m.Operation),
			logger.F("runs", m.Count),
			logger.F("errors", m.Errors),
			logger.F("avg", m.Avg),
			logger.F("max", m.Max),
		})
	}
	log.Debug("rows decoded: %d", pipeline.Rows())
}

// writeOutput writes output to outputFile, or to w when no file is given
func writeOutput(w io.Writer, output []byte, outputFile string) error {
	if outputFile == "" {
		_, err := w.Write(output)
		return err
	}

	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	newLogger("output").Info("output saved to %s", outputFile)
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	// #nosec G304 - output path is chosen by the user running the command
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
