package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/shiplog/internal/logparse"
)

var (
	ColorBlue   = lipgloss.Color("39")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
	ColorPink   = lipgloss.Color("201")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("255")
	ColorNavy   = lipgloss.Color("17")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorNavy).
			Padding(0, 1)

	sectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBlue)

	statusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange)

	labelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)
)

// getSeverityColor returns the appropriate color for a severity level.
func getSeverityColor(level string) lipgloss.Color {
	switch logparse.NormalizeLevel(level) {
	case logparse.Critical:
		return ColorPink
	case logparse.Error:
		return ColorRed
	case logparse.Warning:
		return ColorOrange
	case logparse.Info:
		return ColorBlue
	case logparse.Debug:
		return ColorGray
	default:
		return ColorWhite
	}
}
