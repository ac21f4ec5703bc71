package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBar renders a single line with left and right aligned segments
type StatusBar struct {
	Left    []string
	Right   []string
	Message string
	IsError bool
	Width   int

	Style        lipgloss.Style
	SegmentStyle lipgloss.Style
	MessageStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
}

// NewStatusBar creates a status bar of the given width
func NewStatusBar(width int) *StatusBar {
	return &StatusBar{
		Width:        width,
		Style:        lipgloss.NewStyle(),
		SegmentStyle: lipgloss.NewStyle(),
		MessageStyle: lipgloss.NewStyle(),
		ErrorStyle:   lipgloss.NewStyle().Bold(true),
	}
}

// SetMessage shows a transient message in the middle of the bar
func (s *StatusBar) SetMessage(msg string, isError bool) {
	s.Message = msg
	s.IsError = isError
}

// Render renders the status bar
func (s *StatusBar) Render() string {
	left := s.renderSegments(s.Left)
	right := s.renderSegments(s.Right)

	middle := ""
	if s.Message != "" {
		style := s.MessageStyle
		if s.IsError {
			style = s.ErrorStyle
		}
		middle = style.Render(s.Message)
	}

	if s.Width <= 0 {
		return s.Style.Render(strings.TrimSpace(strings.Join([]string{left, middle, right}, " ")))
	}

	// Messages yield to the fixed segments when space runs out
	room := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if lipgloss.Width(middle) > room {
		middle = ""
		if room > 1 && s.Message != "" {
			style := s.MessageStyle
			if s.IsError {
				style = s.ErrorStyle
			}
			middle = style.Render(Truncate(s.Message, room))
		}
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	leftGap := 1
	rightGap := gap - leftGap
	line := left + strings.Repeat(" ", leftGap) + middle + strings.Repeat(" ", rightGap) + right
	return s.Style.Width(s.Width).MaxWidth(s.Width).Render(line)
}

func (s *StatusBar) renderSegments(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		parts = append(parts, s.SegmentStyle.Render(seg))
	}
	return strings.Join(parts, " ")
}
