package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the grid key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Search    key.Binding
	ClearAll  key.Binding
	Sort      key.Binding
	SortIndex key.Binding
	ClearSort key.Binding
	Open      key.Binding
	Reload    key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Home:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
		End:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearAll:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Sort:      key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s/enter", "sort by column")),
		SortIndex: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "sort column N")),
		ClearSort: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear sort")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy row")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Sort, k.Open, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PageUp, k.PageDown, k.Home, k.End},
		{k.Search, k.ClearAll, k.Sort, k.SortIndex, k.ClearSort},
		{k.Open, k.Reload, k.Copy, k.Help, k.Quit},
	}
}
