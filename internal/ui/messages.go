package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/SheetView/internal/loader"
	"github.com/yildizm/SheetView/internal/table"
)

// sheetLoadedMsg carries a decoded sheet back to the event loop
type sheetLoadedMsg struct {
	seq     int
	path    string
	sheet   *table.Sheet
	elapsed time.Duration
}

// loadErrorMsg reports a failed read or decode
type loadErrorMsg struct {
	seq  int
	path string
	err  error
}

// clipboardMsg reports the outcome of a copy
type clipboardMsg struct {
	cells int
	err   error
}

type tickMsg time.Time

// CreateLoadCommand creates a tea command that reads and decodes path
func CreateLoadCommand(seq int, path string, maxSize int64) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		sheet, err := loader.LoadFile(context.Background(), path, maxSize)
		if err != nil {
			return loadErrorMsg{seq: seq, path: path, err: err}
		}
		return sheetLoadedMsg{
			seq:     seq,
			path:    path,
			sheet:   sheet,
			elapsed: time.Since(start),
		}
	}
}

// CreateCopyCommand creates a tea command that writes text to the clipboard
func CreateCopyCommand(copyFn func(string) error, text string, cells int) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{cells: cells, err: copyFn(text)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
