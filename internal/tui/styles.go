package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary   = lipgloss.Color("#4ECDC4")
	TextMuted = lipgloss.Color("#888888")
	ErrorRed  = lipgloss.Color("#FF6B6B")
	OkGreen   = lipgloss.Color("#95E1A3")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Bold(true)

	DoneValueStyle = lipgloss.NewStyle().
			Foreground(OkGreen)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)
)
