package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("86")  // Cyan
	colorSecondary = lipgloss.Color("240") // Gray
	colorSuccess   = lipgloss.Color("82")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorDanger    = lipgloss.Color("196") // Red
	colorMuted     = lipgloss.Color("245") // Light gray
)

// Styles
var (
	// Title bar
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Help text
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Section headers
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	// Model info panel
	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1)

	// Feature group column
	groupStyle = lipgloss.NewStyle().
			MarginRight(2)

	// Progress bar
	progressBarEmptyStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	invalidLabelStyle = lipgloss.NewStyle().
				Foreground(colorDanger)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Error
	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	// Result panel
	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 1)

	malignantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorDanger)

	benignStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)
)

// classColor returns the accent color for a predicted class
func classColor(malignant bool) lipgloss.Color {
	if malignant {
		return colorDanger
	}
	return colorSuccess
}
