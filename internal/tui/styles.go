package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6")).
			MarginBottom(1)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow

	controlStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("2"))

	disabledControlStyle = controlStyle.
				Foreground(lipgloss.Color("8")).
				BorderForeground(lipgloss.Color("8"))

	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	eventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
)
