package ui

import "github.com/charmbracelet/lipgloss"

// Caldera palette, high contrast on dark terminal backgrounds.
const (
	ColorWhite = "#FFFFFF"

	ColorGray500 = "#6C7585"
	ColorGray600 = "#4E5560"
	ColorGray800 = "#212732"

	ColorMagenta300 = "#F0ABFC"
	ColorMagenta400 = "#E879F9"
	ColorMagenta500 = "#D946EF"
	ColorMagenta600 = "#C026D3"

	ColorGreen500 = "#3CC274"

	ColorYellow400 = "#FACC15"

	ColorOrange500 = "#E86832"
)

var (
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMagenta500)).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen500))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange500))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow400))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray500))
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	CodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMagenta300))
)
