package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	jsoniter "github.com/json-iterator/go"
	"github.com/xuri/excelize/v2"
	"github.com/yildizm/SheetView/internal/table"
	"github.com/yildizm/SheetView/internal/ui"
)

// writeWorkbook saves rows as the first sheet of an xlsx file in dir
func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		values := row
		if err := f.SetSheetRow("Sheet1", axis, &values); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func peopleRows() [][]interface{} {
	return [][]interface{}{
		{"Name", "Age"},
		{"Bob", 30},
		{"Amy", 25},
		{"Cid", 41},
		{"Dana", 19},
	}
}

// executeCommand runs the root command with an isolated config file
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "sheetview.yaml")
	if err := os.WriteFile(cfgPath, []byte("version: \"1.0\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	oldTerminal := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() {
		stdoutIsTerminal = oldTerminal
		globalConfig = nil
		ui.SetColorDisabled(false)
	})

	root := NewRootCommand("dev", "none", "unknown")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append(args, "--config", cfgPath))

	err := root.Execute()
	return buf.String(), err
}

func TestShouldUseTUIMode(t *testing.T) {
	tests := []struct {
		name           string
		noTUI          bool
		outputFormat   string
		verbose        bool
		terminal       bool
		expectedResult bool
	}{
		{"should use TUI - all conditions met", false, "text", false, true, true},
		{"should not use TUI - no-tui flag set", true, "text", false, true, false},
		{"should not use TUI - json output", false, "json", false, true, false},
		{"should not use TUI - verbose mode", false, "text", true, true, false},
		{"should not use TUI - stdout redirected", false, "text", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldNoTUI := viewNoTUI
			oldVerbose := verbose
			oldOutputFmt := outputFmt
			oldTerminal := stdoutIsTerminal

			viewNoTUI = tt.noTUI
			verbose = tt.verbose
			outputFmt = tt.outputFormat
			stdoutIsTerminal = func() bool { return tt.terminal }

			defer func() {
				viewNoTUI = oldNoTUI
				verbose = oldVerbose
				outputFmt = oldOutputFmt
				stdoutIsTerminal = oldTerminal
			}()

			if result := shouldUseTUIMode(); result != tt.expectedResult {
				t.Errorf("shouldUseTUIMode() = %v, want %v", result, tt.expectedResult)
			}
		})
	}
}

func TestSortStateFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		column  int
		desc    bool
		want    table.SortState
		wantErr bool
	}{
		{"unsorted", 0, false, table.NoSort, false},
		{"first column ascending", 1, false, table.SortState{Column: 0, Direction: table.DirectionAscending}, false},
		{"third column descending", 3, true, table.SortState{Column: 2, Direction: table.DirectionDescending}, false},
		{"negative column", -1, false, table.NoSort, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sortStateFromFlags(tt.column, tt.desc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateInputPath(t *testing.T) {
	dir := t.TempDir()
	book := writeWorkbook(t, dir, "people.xlsx", peopleRows())
	notes := filepath.Join(dir, "notes.csv")
	if err := os.WriteFile(notes, []byte("a,b\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid workbook", book, ""},
		{"empty", "  ", "empty file path"},
		{"missing", filepath.Join(dir, "missing.xlsx"), "does not exist"},
		{"directory", dir, "directory"},
		{"wrong extension", notes, "unsupported file type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInputPath(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestViewPrintsJSON(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "people.xlsx", peopleRows())

	out, err := executeCommand(t, "view", "--no-tui", "-o", "json", "--query", "a", "--sort-column", "2", path)
	if err != nil {
		t.Fatalf("view failed: %v\n%s", err, out)
	}

	var doc struct {
		Sheet   string `json:"sheet"`
		Query   string `json:"query"`
		Summary struct {
			TotalRows   int `json:"total_rows"`
			VisibleRows int `json:"visible_rows"`
		} `json:"summary"`
		Sort struct {
			Column    int    `json:"column"`
			Direction string `json:"direction"`
		} `json:"sort"`
	}
	if err := jsoniter.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if doc.Sheet != "Sheet1" || doc.Query != "a" {
		t.Errorf("unexpected header fields: %+v", doc)
	}
	if doc.Summary.TotalRows != 4 || doc.Summary.VisibleRows != 2 {
		t.Errorf("unexpected summary: %+v", doc.Summary)
	}
	if doc.Sort.Column != 1 || doc.Sort.Direction != "asc" {
		t.Errorf("unexpected sort: %+v", doc.Sort)
	}
	if strings.Index(out, "Dana") > strings.Index(out, "Amy") {
		t.Error("expected Dana (19) before Amy (25)")
	}
	if strings.Contains(out, "Bob") {
		t.Error("Bob should be filtered out")
	}
}

func TestViewWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "people.xlsx", peopleRows())
	target := filepath.Join(dir, "out.md")

	out, err := executeCommand(t, "view", "--no-tui", "-o", "markdown", "--output-file", target, path)
	if err != nil {
		t.Fatalf("view failed: %v\n%s", err, out)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout, got %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "| Name") || !strings.Contains(string(data), "Dana") {
		t.Errorf("unexpected markdown:\n%s", data)
	}
}

func TestViewErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "people.xlsx", peopleRows())
	corrupt := filepath.Join(dir, "corrupt.xlsx")
	if err := os.WriteFile(corrupt, []byte("not a workbook"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no file without tui", []string{"view", "--no-tui"}, "file argument is required"},
		{"sort column out of range", []string{"view", "--no-tui", "--sort-column", "5", path}, "out of range"},
		{"corrupt file", []string{"view", "--no-tui", corrupt}, "unsupported or corrupt"},
		{"unknown format", []string{"view", "-o", "yaml", path}, "unsupported output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestViewLaunchesTUI(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "people.xlsx", peopleRows())

	var got ui.Options
	oldRun := runTUI
	runTUI = func(opts ui.Options) error {
		got = opts
		return nil
	}
	defer func() { runTUI = oldRun }()

	oldTerminal := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return true }
	defer func() {
		stdoutIsTerminal = oldTerminal
		globalConfig = nil
	}()

	cfgPath := filepath.Join(t.TempDir(), "sheetview.yaml")
	if err := os.WriteFile(cfgPath, []byte("view:\n  reset_on_load: true\n  page_size: 20\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	root := NewRootCommand("dev", "none", "unknown")
	root.SetArgs([]string{"view", "-q", "amy", "--sort-column", "2", "--sort-desc", "--config", cfgPath, path})
	if err := root.Execute(); err != nil {
		t.Fatalf("view failed: %v", err)
	}

	if got.Path != path || got.Query != "amy" {
		t.Errorf("unexpected options: %+v", got)
	}
	if got.Sort != (table.SortState{Column: 1, Direction: table.DirectionDescending}) {
		t.Errorf("unexpected sort: %+v", got.Sort)
	}
	if !got.ResetOnLoad || got.PageSize != 20 {
		t.Errorf("expected config values to reach the viewer: %+v", got)
	}
	if got.MaxFileSize != 50<<20 || got.MaxColumnWidth != 24 {
		t.Errorf("expected default limits: %+v", got)
	}
}

func TestSheetsCommand(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Orders"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("Customers"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "shop.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	out, err := executeCommand(t, "sheets", "--no-emoji", path)
	if err != nil {
		t.Fatalf("sheets failed: %v", err)
	}
	if !strings.Contains(out, "Orders") || !strings.Contains(out, "Customers") {
		t.Errorf("expected both sheets, got:\n%s", out)
	}
	if !strings.Contains(out, "2 sheets") {
		t.Errorf("expected sheet count, got:\n%s", out)
	}

	out, err = executeCommand(t, "sheets", "-o", "json", path)
	if err != nil {
		t.Fatalf("sheets failed: %v", err)
	}
	var result SheetsOutput
	if err := jsoniter.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Selected != "Orders" || len(result.Sheets) != 2 || result.Format != "xlsx" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := executeCommand(t, "config", "init", "--minimal", "--output", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("expected output to name the file, got %q", out)
	}
	if !fileExists(target) {
		t.Fatal("config file was not created")
	}

	if _, err := executeCommand(t, "config", "init", "--output", target); err == nil {
		t.Error("expected error when config exists without --force")
	}
	if _, err := executeCommand(t, "config", "init", "--force", "--output", target); err != nil {
		t.Errorf("expected --force to overwrite: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	out, err := executeCommand(t, "config", "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "Theme: default") {
		t.Errorf("expected summary, got:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "SheetView development (local-build)") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestWatcherKeepsLastGoodSheet(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "people.xlsx", peopleRows())

	oldFmt := outputFmt
	outputFmt = "csv"
	defer func() { outputFmt = oldFmt }()

	var buf bytes.Buffer
	w := &sheetWatcher{
		path:    path,
		session: table.NewSession(),
		out:     &buf,
		log:     newLogger("watch"),
	}
	if err := w.reload(); err != nil {
		t.Fatal(err)
	}
	if err := applyViewFlags(w.session, "", table.SortState{Column: 1, Direction: table.DirectionAscending}); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("half-written"), 0o600); err != nil {
		t.Fatal(err)
	}
	w.handleChange()
	if buf.Len() != 0 {
		t.Error("a failed reload should not print")
	}
	if w.session.Stats().TotalRows != 4 {
		t.Error("expected previous sheet to stay loaded")
	}

	writeWorkbook(t, dir, "people.xlsx", [][]interface{}{{"Name", "Age"}, {"Eve", 50}, {"Fay", 7}})
	w.handleChange()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "Fay") {
		t.Errorf("expected sorted reprint, got:\n%s", buf.String())
	}
}

func TestWatcherIsRelevant(t *testing.T) {
	w := &sheetWatcher{path: filepath.Join("data", "book.xlsx")}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: "data/book.xlsx", Op: fsnotify.Write}, true},
		{"create after rename", fsnotify.Event{Name: "data/book.xlsx", Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: "data/book.xlsx", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "data/~$book.xlsx", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.isRelevant(tt.event); got != tt.want {
				t.Errorf("isRelevant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadSessionHonoursCancelledContext(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "people.xlsx", peopleRows())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := table.NewSession()
	err := loadSession(ctx, session, path)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if session.Loaded() {
		t.Error("session should stay empty after a cancelled load")
	}

	if err := loadSession(context.Background(), session, path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if session.Stats().TotalRows != 4 {
		t.Errorf("expected 4 rows, got %+v", session.Stats())
	}
}

func TestLogFileClosedAfterCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "people.xlsx", peopleRows())
	logPath := filepath.Join(dir, "logs", "sheetview.log")

	cfgPath := filepath.Join(dir, "sheetview.yaml")
	cfg := "logging:\n  file: " + logPath + "\n  max_size_mb: 1\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	oldTerminal := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	defer func() {
		stdoutIsTerminal = oldTerminal
		globalConfig = nil
		closeLogFile()
	}()

	root := NewRootCommand("dev", "none", "unknown")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"view", "--no-tui", "-v", "--config", cfgPath, path})
	if err := root.Execute(); err != nil {
		t.Fatalf("view failed: %v\n%s", err, buf.String())
	}

	if logFile != nil {
		t.Error("expected the log file to be closed after the command")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("expected log file to be written: %v", err)
	}
	if !strings.Contains(string(data), "pipeline step") {
		t.Errorf("expected pipeline timings in the log file, got: %s", data)
	}
}
