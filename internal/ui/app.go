package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/SheetView/internal/emoji"
	"github.com/yildizm/SheetView/internal/loader"
	"github.com/yildizm/SheetView/internal/logger"
	"github.com/yildizm/SheetView/internal/table"
	"github.com/yildizm/SheetView/internal/ui/components"
)

// inputMode represents what keystrokes are currently driving
type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeOpen
	modeHelp
)

// title, input line, status bar and short help
const chromeLines = 4

// Options configures the viewer
type Options struct {
	Path           string
	Query          string
	Sort           table.SortState
	ResetOnLoad    bool
	MaxColumnWidth int
	PageSize       int
	MaxFileSize    int64
	Copy           func(string) error
	Logger         *logger.Logger
}

// Model is the interactive spreadsheet viewer
type Model struct {
	opts    Options
	session *table.Session
	grid    *components.Grid
	status  *components.StatusBar
	spinner *components.Spinner
	styles  *Styles
	keys    keyMap
	help    help.Model
	search  textinput.Model
	open    textinput.Model
	log     *logger.Logger

	mode     inputMode
	width    int
	height   int
	ready    bool
	quitting bool

	path        string
	pendingSort table.SortState
	loadSeq     int
	inFlight    int
	message     string
	isError     bool
}

// NewModel creates a viewer model
func NewModel(opts Options) *Model {
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = loader.DefaultMaxFileSize
	}
	if opts.MaxColumnWidth <= 0 {
		opts.MaxColumnWidth = 24
	}
	log := opts.Logger
	if log == nil {
		log = logger.New("ui", nil)
	}

	styles := GetStyles()

	search := textinput.New()
	search.Prompt = emoji.GetEmoji("search") + " "
	search.Placeholder = "type to filter rows"
	search.CharLimit = 256
	search.PromptStyle = styles.Prompt

	open := textinput.New()
	open.Prompt = emoji.GetEmoji("open") + " "
	open.Placeholder = "path to .xlsx or .xls"
	open.CharLimit = 4096
	open.PromptStyle = styles.Prompt

	grid := components.NewGrid(nil, 0, 0)
	grid.MaxColumnWidth = opts.MaxColumnWidth
	grid.AscMarker = emoji.GetEmoji("sort_asc")
	grid.DescMarker = emoji.GetEmoji("sort_desc")
	grid.Styles = styles.Grid

	status := components.NewStatusBar(0)
	status.Style = styles.StatusBar
	status.SegmentStyle = styles.StatusSegment
	status.MessageStyle = styles.StatusBar
	status.ErrorStyle = styles.StatusBar.Foreground(styles.Theme.Error).Bold(true)

	spinner := components.NewSpinner()
	spinner.Style = styles.Success

	session := table.NewSession(table.WithResetOnLoad(opts.ResetOnLoad))
	session.SetQuery(opts.Query)
	search.SetValue(opts.Query)

	return &Model{
		opts:        opts,
		session:     session,
		grid:        grid,
		status:      status,
		spinner:     spinner,
		styles:      styles,
		keys:        defaultKeyMap(),
		help:        help.New(),
		search:      search,
		open:        open,
		log:         log,
		pendingSort: opts.Sort,
	}
}

// Init starts the spinner and the initial load
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.opts.Path != "" {
		cmds = append(cmds, m.startLoad(m.opts.Path))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and key presses
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick()
	case sheetLoadedMsg:
		return m.handleSheetLoaded(msg)
	case loadErrorMsg:
		return m.handleLoadError(msg)
	case clipboardMsg:
		return m.handleClipboard(msg)
	}
	return m, nil
}

// Session exposes the view state, mainly for tests and exports
func (m *Model) Session() *table.Session {
	return m.session
}

// startLoad issues an asynchronous read of path
func (m *Model) startLoad(path string) tea.Cmd {
	m.loadSeq++
	m.inFlight++
	m.spinner.Start("Loading " + filepath.Base(path))
	m.log.InfoWithFields("loading spreadsheet", []logger.Field{logger.Path(path), logger.F("seq", m.loadSeq)})
	return CreateLoadCommand(m.loadSeq, path, m.opts.MaxFileSize)
}

func (m *Model) loading() bool {
	return m.inFlight > 0
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.help.Width = msg.Width
	m.search.Width = max(10, msg.Width-6)
	m.open.Width = max(10, msg.Width-6)
	m.layout()
	return m, nil
}

// layout sizes the grid to the window
func (m *Model) layout() {
	height := m.height - chromeLines
	if m.opts.PageSize > 0 {
		// page rows plus borders and header
		height = min(height, m.opts.PageSize+4)
	}
	m.grid.Width = m.width
	m.grid.Height = max(height, 5)
	m.status.Width = m.width
	m.grid.EnsureVisible()
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.loading() {
		m.spinner.Tick()
	}
	return m, tick()
}

// handleSheetLoaded installs a decoded sheet. Results apply in arrival
// order, so a slow earlier read can replace a newer one.
func (m *Model) handleSheetLoaded(msg sheetLoadedMsg) (tea.Model, tea.Cmd) {
	m.inFlight = max(0, m.inFlight-1)
	if msg.seq < m.loadSeq {
		m.log.Warn("applying out-of-order load %d (latest %d) for %s", msg.seq, m.loadSeq, msg.path)
	}

	m.session.Load(msg.sheet)
	if m.pendingSort.Active() {
		m.session.SetSort(m.pendingSort)
		m.pendingSort = table.NoSort
	}
	if m.opts.ResetOnLoad {
		m.search.SetValue("")
	}
	m.path = msg.path
	m.syncGrid(true)

	stats := m.session.Stats()
	m.setMessage(fmt.Sprintf("%s Loaded %s (%d rows) in %s", emoji.GetEmoji("success"),
		filepath.Base(msg.path), stats.TotalRows, msg.elapsed.Round(1e6)), false)
	m.log.InfoWithFields("spreadsheet loaded", []logger.Field{
		logger.Path(msg.path),
		logger.F("sheet", msg.sheet.Name),
		logger.Count(stats.TotalRows),
		logger.Duration(msg.elapsed),
	})
	return m, nil
}

// handleLoadError reports a failed load and keeps the current sheet
func (m *Model) handleLoadError(msg loadErrorMsg) (tea.Model, tea.Cmd) {
	m.inFlight = max(0, m.inFlight-1)

	text := msg.err.Error()
	if errors.Is(msg.err, loader.ErrUnsupportedOrCorruptFile) {
		text = fmt.Sprintf("%s is not a readable spreadsheet", filepath.Base(msg.path))
	}
	m.setMessage(emoji.GetEmoji("error")+" "+text, true)
	m.log.WarnWithFields("load failed", []logger.Field{logger.Path(msg.path), logger.Error(msg.err)})
	return m, nil
}

func (m *Model) handleClipboard(msg clipboardMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setMessage(emoji.GetEmoji("error")+" Copy failed: "+msg.err.Error(), true)
		return m, nil
	}
	m.setMessage(fmt.Sprintf("%s Copied %d cells", emoji.GetEmoji("clipboard"), msg.cells), false)
	return m, nil
}

func (m *Model) setMessage(text string, isError bool) {
	m.message = text
	m.isError = isError
}

// syncGrid points the grid at the current view
func (m *Model) syncGrid(resetCursor bool) {
	m.grid.Sheet = m.session.View()
	m.grid.Sort = m.session.SortState()
	m.grid.Query = m.session.Query()
	if resetCursor {
		m.grid.RowOffset = 0
		m.grid.SetCursor(0, m.grid.CursorCol)
		return
	}
	m.grid.MoveCursor(0, 0)
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeOpen:
		return m.handleOpenKey(msg)
	case modeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.ClearAll, m.keys.Quit) {
			m.mode = modeBrowse
		}
		return m, nil
	}

	return m.handleBrowseKey(msg)
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.grid.PageRows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.handleQuit()
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	case key.Matches(msg, m.keys.Up):
		m.grid.MoveCursor(-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.grid.MoveCursor(1, 0)
	case key.Matches(msg, m.keys.Left):
		m.grid.MoveCursor(0, -1)
	case key.Matches(msg, m.keys.Right):
		m.grid.MoveCursor(0, 1)
	case key.Matches(msg, m.keys.PageUp):
		m.grid.MoveCursor(-page, 0)
	case key.Matches(msg, m.keys.PageDown):
		m.grid.MoveCursor(page, 0)
	case key.Matches(msg, m.keys.Home):
		m.grid.SetCursor(0, m.grid.CursorCol)
	case key.Matches(msg, m.keys.End):
		m.grid.SetCursor(m.grid.Rows()-1, m.grid.CursorCol)
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearAll):
		m.search.SetValue("")
		m.session.ClearQuery()
		m.syncGrid(true)
	case key.Matches(msg, m.keys.Sort):
		return m.handleSortColumn(m.grid.CursorCol)
	case key.Matches(msg, m.keys.SortIndex):
		return m.handleSortColumn(int(msg.Runes[0]-'1'))
	case key.Matches(msg, m.keys.ClearSort):
		m.session.ClearSort()
		m.syncGrid(false)
	case key.Matches(msg, m.keys.Open):
		m.mode = modeOpen
		m.open.SetValue(m.path)
		m.open.CursorEnd()
		return m, m.open.Focus()
	case key.Matches(msg, m.keys.Reload):
		if m.path == "" {
			return m, nil
		}
		return m, m.startLoad(m.path)
	case key.Matches(msg, m.keys.Copy):
		return m.handleCopy()
	}
	return m, nil
}

// handleSortColumn clicks a column header
func (m *Model) handleSortColumn(column int) (tea.Model, tea.Cmd) {
	if !m.session.Loaded() || !m.session.Sheet().HasColumn(column) {
		return m, nil
	}
	state := m.session.ClickColumn(column)
	m.grid.CursorCol = column
	m.syncGrid(true)
	m.log.Debug("sorted column %d %s", column, state.Direction)
	return m, nil
}

// handleCopy copies the row under the cursor as tab-separated text
func (m *Model) handleCopy() (tea.Model, tea.Cmd) {
	row := m.grid.CurrentRow()
	if row == nil {
		m.setMessage("Nothing to copy", true)
		return m, nil
	}
	width := m.session.View().Width()
	cells := make([]string, width)
	for i := range cells {
		cells[i] = row.Cell(i).String()
	}
	return m, CreateCopyCommand(m.opts.Copy, strings.Join(cells, "\t"), width)
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEsc:
		m.search.Blur()
		m.search.SetValue("")
		m.session.ClearQuery()
		m.syncGrid(true)
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.session.Query() {
		m.session.SetQuery(m.search.Value())
		m.syncGrid(true)
	}
	return m, cmd
}

func (m *Model) handleOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		path := strings.TrimSpace(m.open.Value())
		if path == "" {
			return m, nil
		}
		if !loader.Accepts(path) {
			m.setMessage(fmt.Sprintf("%s Only %s files can be opened", emoji.GetEmoji("warning"),
				strings.Join(loader.AcceptedExtensions, ", ")), true)
			return m, nil
		}
		m.open.Blur()
		m.mode = modeBrowse
		return m, m.startLoad(expandHome(path))
	case tea.KeyEsc:
		m.open.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.open, cmd = m.open.Update(msg)
	return m, cmd
}

func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders the viewer
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		loading := m.styles.Title.Render("Starting SheetView...")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, loading)
	}
	if m.mode == modeHelp {
		return m.renderHelp()
	}

	sections := []string{
		m.renderTitle(),
		m.renderBody(),
		m.renderInputLine(),
		m.renderStatus(),
		m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTitle() string {
	title := m.styles.Title.Render(emoji.GetEmoji("sheet") + " SheetView")
	if m.path == "" {
		return title
	}
	return title + "  " + m.styles.Muted.Render(m.path)
}

func (m *Model) renderBody() string {
	bodyHeight := max(m.height-chromeLines, 1)

	if !m.session.Loaded() {
		text := m.styles.Muted.Render(fmt.Sprintf("Press %s to open a spreadsheet", m.keys.Open.Help().Key))
		if m.loading() {
			text = m.spinner.Render()
		}
		return lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, text)
	}

	grid := m.grid.Render()
	return lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(grid)
}

func (m *Model) renderInputLine() string {
	switch m.mode {
	case modeSearch:
		return m.search.View()
	case modeOpen:
		return m.open.View()
	}
	if m.loading() && m.session.Loaded() {
		return m.spinner.Render()
	}
	if q := m.session.Query(); q != "" {
		return m.styles.Info.Render(fmt.Sprintf("%s filter: %q", emoji.GetEmoji("search"), q))
	}
	return ""
}

func (m *Model) renderStatus() string {
	left := []string{}
	if m.session.Loaded() {
		stats := m.session.Stats()
		left = append(left,
			emoji.GetEmoji("sheet")+" "+m.session.Sheet().Name,
			fmt.Sprintf("%d/%d rows", stats.VisibleRows, stats.TotalRows),
			fmt.Sprintf("%d cols", stats.Columns),
		)
		if state := m.session.SortState(); state.Active() {
			name := m.session.Sheet().Header().Cell(state.Column).String()
			if name == "" {
				name = components.ColumnName(state.Column)
			}
			left = append(left, fmt.Sprintf("sort: %s %s", name, state.Direction))
		}
		if m.grid.Rows() > 0 {
			left = append(left, fmt.Sprintf("%s%d", components.ColumnName(m.grid.CursorCol), m.grid.CursorRow+1))
		}
	}

	m.status.Left = left
	m.status.Right = []string{m.keys.Help.Help().Key + " help"}
	m.status.SetMessage(m.message, m.isError)
	return m.status.Render()
}

func (m *Model) renderHelp() string {
	full := m.help
	full.ShowAll = true

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Title.Render(emoji.GetEmoji("help")+" SheetView Help"),
		"",
		full.View(m.keys),
		"",
		m.styles.Muted.Render("Search matches any cell, ignoring case. Sorting a column again reverses it."),
		"",
		m.styles.Warning.Render("Press ? or esc to go back"),
	)

	box := m.styles.Box.Width(min(m.width-4, 100))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(content))
}

// expandHome expands a leading ~/ in paths typed into the open prompt
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Run starts the viewer on the alternate screen
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
