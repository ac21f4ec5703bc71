package table

// Stats summarises the current view for status lines
type Stats struct {
	TotalRows   int
	VisibleRows int
	Columns     int
}

// Session owns the view state that sits next to a replaceable sheet: the
// search query and the sort state. The displayed grid is always derived
// from the loaded sheet by filtering and then sorting.
type Session struct {
	sheet       *Sheet
	query       string
	sort        SortState
	resetOnLoad bool
	view        *Sheet
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithResetOnLoad makes Load clear the query and sort state
func WithResetOnLoad(reset bool) SessionOption {
	return func(s *Session) {
		s.resetOnLoad = reset
	}
}

// NewSession creates an empty session
func NewSession(opts ...SessionOption) *Session {
	s := &Session{sort: NoSort}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the current sheet in full. Query and sort state carry over
// unless the session was created with WithResetOnLoad(true); a carried sort
// whose column no longer exists is dropped.
func (s *Session) Load(sheet *Sheet) {
	s.sheet = sheet
	if s.resetOnLoad {
		s.query = ""
		s.sort = NoSort
	} else if s.sort.Active() && !sheet.HasColumn(s.sort.Column) {
		s.sort = NoSort
	}
	s.refresh()
}

// Loaded reports whether a sheet has been loaded
func (s *Session) Loaded() bool {
	return s.sheet != nil
}

// Sheet returns the loaded sheet, unfiltered and unsorted
func (s *Session) Sheet() *Sheet {
	return s.sheet
}

// Query returns the active search query
func (s *Session) Query() string {
	return s.query
}

// SortState returns the active sort state
func (s *Session) SortState() SortState {
	return s.sort
}

// SetQuery replaces the search query
func (s *Session) SetQuery(query string) {
	if query == s.query {
		return
	}
	s.query = query
	s.refresh()
}

// ClearQuery removes the search query
func (s *Session) ClearQuery() {
	s.SetQuery("")
}

// ClickColumn toggles sorting on column and returns the new state.
// Out-of-range columns are ignored.
func (s *Session) ClickColumn(column int) SortState {
	if !s.sheet.HasColumn(column) {
		return s.sort
	}
	s.sort = s.sort.Toggle(column)
	s.refresh()
	return s.sort
}

// SetSort installs a sort state directly, e.g. from command-line flags
func (s *Session) SetSort(state SortState) {
	if state.Active() && !s.sheet.HasColumn(state.Column) {
		return
	}
	s.sort = state
	s.refresh()
}

// ClearSort returns the sort state to neutral
func (s *Session) ClearSort() {
	s.sort = NoSort
	s.refresh()
}

// View returns the derived sheet for display
func (s *Session) View() *Sheet {
	return s.view
}

// Stats returns row and column counts for the current view
func (s *Session) Stats() Stats {
	return Stats{
		TotalRows:   s.sheet.Len(),
		VisibleRows: s.view.Len(),
		Columns:     s.sheet.Columns(),
	}
}

func (s *Session) refresh() {
	if s.sheet == nil {
		s.view = nil
		return
	}
	s.view = ApplySort(Filter(s.sheet, s.query), s.sort)
}
