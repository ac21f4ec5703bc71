package table

import "strings"

// Filter returns the header plus every data row with at least one cell whose
// display text contains query, ignoring case. A blank query keeps all rows.
// Row order is preserved and the input sheet is not modified.
func Filter(s *Sheet, query string) *Sheet {
	if s == nil || len(s.Rows) == 0 {
		return s
	}
	if strings.TrimSpace(query) == "" {
		return s.withData(s.Data())
	}

	needle := strings.ToLower(query)
	kept := make([]Row, 0, s.Len())
	for _, row := range s.Data() {
		if rowMatches(row, needle) {
			kept = append(kept, row)
		}
	}
	return s.withData(kept)
}

// Matches reports whether any cell of row contains query, ignoring case
func Matches(row Row, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return rowMatches(row, strings.ToLower(query))
}

func rowMatches(row Row, needle string) bool {
	for _, c := range row {
		if strings.Contains(strings.ToLower(c.String()), needle) {
			return true
		}
	}
	return false
}
