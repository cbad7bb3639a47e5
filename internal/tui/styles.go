package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	playedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unplayedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	clockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	inputTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tagsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	processingStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 4)
)
