package theme

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle titles a task listing.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SuccessStyle is used for confirmations such as a created user.
var SuccessStyle = lipgloss.NewStyle().Foreground(ColorGreen)

// WarningStyle is used for expected failures the user can fix.
var WarningStyle = lipgloss.NewStyle().Foreground(ColorYellow)

// ErrorStyle is used for storage and unexpected failures.
var ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)

// HelpStyle is used for hints such as the empty-day message.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// TableStyles returns styles for a static, unfocused task table.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true)
	// Nothing is ever selected in printed output.
	s.Selected = lipgloss.NewStyle()
	return s
}

// DoneLabel renders the done column.
func DoneLabel(done bool) string {
	if done {
		return "Done"
	}
	return "Not done"
}

// ImportantMark renders the important column.
func ImportantMark(important bool) string {
	if important {
		return "!"
	}
	return ""
}
