package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	referenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	quizStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
