package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/SheetView/internal/emoji"
	"github.com/yildizm/SheetView/internal/logger"
	"github.com/yildizm/SheetView/internal/table"
)

// settleDelay groups the bursts of events a single save produces
const settleDelay = 200 * time.Millisecond

var (
	watchQuery      string
	watchSortColumn int
	watchSortDesc   bool
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Reprint a spreadsheet whenever it changes",
		Long: `Watch a workbook and print its filtered, sorted grid every time it is saved.

The query and sort carry over between reloads. A save that cannot be read
is reported and the previous grid stays current. Press Ctrl+C to stop.

Examples:
  sheetview watch report.xlsx
  sheetview watch --query open --sort-column 3 tickets.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&watchQuery, "query", "q", "", "only show rows with a cell containing this text")
	cmd.Flags().IntVar(&watchSortColumn, "sort-column", 0, "1-based column to sort by (0 leaves file order)")
	cmd.Flags().BoolVar(&watchSortDesc, "sort-desc", false, "sort descending instead of ascending")

	return cmd
}

// sheetWatcher reloads one file into a session and reprints it
type sheetWatcher struct {
	path    string
	session *table.Session
	out     io.Writer
	log     *logger.Logger
	loads   int
}

func runWatch(cmd *cobra.Command, args []string) error {
	filename := args[0]

	sort, err := sortStateFromFlags(watchSortColumn, watchSortDesc)
	if err != nil {
		return err
	}

	// Validate file path for security
	if err := validateInputPath(filename); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	w := &sheetWatcher{
		path:    filepath.Clean(filename),
		session: table.NewSession(),
		out:     cmd.OutOrStdout(),
		log:     newLogger("watch"),
	}

	// Initial render also fixes the query and sort for later reloads
	if err := w.reload(); err != nil {
		return err
	}
	if err := applyViewFlags(w.session, watchQuery, sort); err != nil {
		return err
	}
	if err := w.print(); err != nil {
		return err
	}

	watcher, err := createWatcher(w.path)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	w.log.Info("watching %s, press Ctrl+C to stop", w.path)
	defer logPipelineSummary()
	return w.runWatchLoop(watcher)
}

// reload reads the file again. On failure the session keeps its sheet.
func (w *sheetWatcher) reload() error {
	cfg := GetGlobalConfig()
	ctx := context.Background()
	if cfg.Loader.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Loader.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := loadSession(ctx, w.session, w.path); err != nil {
		return err
	}
	w.loads++
	w.log.DebugWithFields("reloaded", []logger.Field{
		logger.Path(w.path),
		logger.Count(w.session.Stats().TotalRows),
		logger.Duration(time.Since(start)),
	})
	return nil
}

func (w *sheetWatcher) print() error {
	output, err := renderSession(w.path, w.session)
	if err != nil {
		return err
	}
	if w.loads > 1 && getOutputFormat() == "text" {
		fmt.Fprintf(w.out, "\n%s Reloaded at %s\n", emoji.GetEmoji("reload"), time.Now().Format("15:04:05"))
	}
	_, err = w.out.Write(output)
	return err
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher watches the directory holding filename, since spreadsheet
// programs save by replacing the file rather than writing it in place
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// runWatchLoop runs the main watch loop with signal handling
func (w *sheetWatcher) runWatchLoop(watcher *fsnotify.Watcher) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	var settle <-chan time.Time

	for {
		select {
		case <-signals:
			w.log.Info("received interrupt signal, stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.isRelevant(event) {
				settle = time.After(settleDelay)
			}

		case <-settle:
			settle = nil
			w.handleChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

// isRelevant reports whether event changed the watched file's contents
func (w *sheetWatcher) isRelevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// handleChange reloads and reprints, keeping the last good grid on failure
func (w *sheetWatcher) handleChange() {
	if err := w.reload(); err != nil {
		w.log.WarnWithFields("reload failed, keeping previous grid", []logger.Field{logger.Error(err)})
		return
	}
	if err := w.print(); err != nil {
		w.log.Error("failed to print grid: %v", err)
	}
}
