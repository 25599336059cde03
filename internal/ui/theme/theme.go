// Package theme holds the colors and lipgloss styles of the terminal UI.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/profiler/internal/assessment"
)

// Palette. Accent colors follow the plot marker colors so a profile reads
// the same in the chart and in the text around it.
var (
	Primary   = lipgloss.Color("#00B4D8") // Cyan
	Secondary = lipgloss.Color("#8B5CF6") // Violet
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Grid      = lipgloss.Color("#666666") // Divider gray
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Heading = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// ProfileColor returns the color used for p throughout the UI.
func ProfileColor(p assessment.Profile) color.Color {
	c := assessment.StyleFor(p).Color
	if c == "" {
		return Text
	}
	return lipgloss.Color(c)
}

// Profile renders text in p's color.
func Profile(p assessment.Profile, text string) string {
	return lipgloss.NewStyle().Foreground(ProfileColor(p)).Bold(true).Render(text)
}
