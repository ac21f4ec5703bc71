package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/SheetView/internal/logger"
	"github.com/yildizm/SheetView/internal/table"
	"github.com/yildizm/SheetView/internal/ui"
)

var (
	viewQuery      string
	viewSortColumn int
	viewSortDesc   bool
	viewNoTUI      bool
	viewOutputFile string
	viewTimeout    time.Duration
)

// runTUI starts the interactive viewer; tests replace it
var runTUI = ui.Run

func newViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open a spreadsheet in the interactive viewer",
		Long: `Open an .xlsx or .xls workbook and browse its first worksheet.

Without a file the viewer starts empty; press o to open one. When output is
not a terminal, --no-tui is given, the output format is not text, or
--verbose is set, the filtered and sorted grid is printed instead.

Examples:
  sheetview view report.xlsx
  sheetview view --query amy --sort-column 2 people.xls
  sheetview view -o json --sort-column 1 --sort-desc report.xlsx
  sheetview view --no-tui --output-file out.md -o markdown report.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView,
	}

	cmd.Flags().StringVarP(&viewQuery, "query", "q", "", "only show rows with a cell containing this text")
	cmd.Flags().IntVar(&viewSortColumn, "sort-column", 0, "1-based column to sort by (0 leaves file order)")
	cmd.Flags().BoolVar(&viewSortDesc, "sort-desc", false, "sort descending instead of ascending")
	cmd.Flags().BoolVar(&viewNoTUI, "no-tui", false, "disable terminal UI, output to stdout")
	cmd.Flags().StringVar(&viewOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().DurationVar(&viewTimeout, "timeout", 30*time.Second, "file read timeout for printed output; a decode that overruns it is discarded")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	if !cmd.Flag("timeout").Changed {
		viewTimeout = cfg.Loader.Timeout
	}

	sort, err := sortStateFromFlags(viewSortColumn, viewSortDesc)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
		if err := validateInputPath(path); err != nil {
			return fmt.Errorf("invalid file path: %w", err)
		}
	}

	if shouldUseTUIMode() {
		return runInteractive(path, sort)
	}

	if path == "" {
		return fmt.Errorf("a file argument is required when not running interactively")
	}

	ctx := context.Background()
	if viewTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, viewTimeout)
		defer cancel()
	}

	session := table.NewSession()
	if err := loadSession(ctx, session, path); err != nil {
		return err
	}
	if err := applyViewFlags(session, viewQuery, sort); err != nil {
		return err
	}

	output, err := renderSession(path, session)
	if err != nil {
		return err
	}
	defer logPipelineSummary()
	return writeOutput(cmd.OutOrStdout(), output, viewOutputFile)
}

// shouldUseTUIMode reports whether the interactive viewer should run
func shouldUseTUIMode() bool {
	return !viewNoTUI && getOutputFormat() == "text" && !isVerbose() && stdoutIsTerminal()
}

// runInteractive hands over to the viewer. Log lines go to the configured
// file or nowhere while the alternate screen is active.
func runInteractive(path string, sort table.SortState) error {
	cfg := GetGlobalConfig()

	if cfg.Logging.File == "" {
		logger.SetDefaultWriter(io.Discard)
		defer logger.SetDefaultWriter(nil)
	}

	return runTUI(ui.Options{
		Path:           path,
		Query:          viewQuery,
		Sort:           sort,
		ResetOnLoad:    cfg.View.ResetOnLoad,
		MaxColumnWidth: cfg.View.MaxColumnWidth,
		PageSize:       cfg.View.PageSize,
		MaxFileSize:    cfg.Loader.MaxFileSize,
		Logger:         newLogger("ui"),
	})
}
