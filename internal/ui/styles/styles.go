package styles

import "github.com/charmbracelet/lipgloss"

var (
	Title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DCE13"))
	Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AAAAAA"))
	Footer = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	Danger = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	Faint  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
)
