package table

import (
	"cmp"
	"slices"
	"strings"
)

// Direction is the ordering applied to the sorted column
type Direction int

const (
	DirectionNone Direction = iota
	DirectionAscending
	DirectionDescending
)

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case DirectionAscending:
		return "asc"
	case DirectionDescending:
		return "desc"
	default:
		return "none"
	}
}

// SortState records the active sort column and direction.
// Column is -1 when no column is sorted.
type SortState struct {
	Column    int
	Direction Direction
}

// NoSort is the neutral sort state
var NoSort = SortState{Column: -1, Direction: DirectionNone}

// Active reports whether a column is currently sorted
func (s SortState) Active() bool {
	return s.Column >= 0 && s.Direction != DirectionNone
}

// Toggle returns the state after selecting column. The same column sorted
// ascending flips to descending; everything else starts ascending.
func (s SortState) Toggle(column int) SortState {
	if s.Column == column && s.Direction == DirectionAscending {
		return SortState{Column: column, Direction: DirectionDescending}
	}
	return SortState{Column: column, Direction: DirectionAscending}
}

// kindRank orders mixed-type columns: numbers, booleans, text, then blanks
func kindRank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindBool:
		return 1
	case KindText:
		return 2
	default:
		return 3
	}
}

// Compare orders two cells. Cells of different kinds order by kind rank
// (number < bool < text < empty). Within a kind, numbers compare numerically,
// false sorts before true and text compares byte-wise.
func Compare(a, b Cell) int {
	if a.Kind != b.Kind {
		return cmp.Compare(kindRank(a.Kind), kindRank(b.Kind))
	}
	switch a.Kind {
	case KindNumber:
		return cmp.Compare(a.Num, b.Num)
	case KindBool:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		default:
			return 1
		}
	case KindText:
		return strings.Compare(a.Str, b.Str)
	default:
		return 0
	}
}

// SortByColumn applies a header click on column. It returns the reordered
// sheet together with the new sort state. The header row stays first.
//
// A column outside the header range leaves both the sheet and the state
// untouched. A sheet without data rows still gets its state updated.
func SortByColumn(s *Sheet, column int, state SortState) (*Sheet, SortState) {
	if !s.HasColumn(column) {
		return s, state
	}
	next := state.Toggle(column)
	return ApplySort(s, next), next
}

// ApplySort orders the data rows of s by an existing sort state.
// Ascending is a stable sort; descending is the exact reverse of ascending,
// so toggling a column twice mirrors the row order.
func ApplySort(s *Sheet, state SortState) *Sheet {
	if !state.Active() || !s.HasColumn(state.Column) {
		return s
	}

	data := slices.Clone(s.Data())
	col := state.Column
	slices.SortStableFunc(data, func(a, b Row) int {
		return Compare(a.Cell(col), b.Cell(col))
	})
	if state.Direction == DirectionDescending {
		slices.Reverse(data)
	}
	return s.withData(data)
}
