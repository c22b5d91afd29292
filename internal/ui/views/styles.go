package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("39")
	ColorDanger  = lipgloss.Color("196")
	ColorMuted   = lipgloss.Color("241")
	ColorSuccess = lipgloss.Color("42")
)

var (
	UserMessageStyle      = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	AssistantMessageStyle = lipgloss.NewStyle()
	AgentLabelStyle       = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	ToolMessageStyle      = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorMessageStyle     = lipgloss.NewStyle().Foreground(ColorDanger)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	PermissionBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(ColorDanger).
				Padding(0, 1)

	StatusDefaultStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusThinkingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	StatusExecutingStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	StatusDoneStyle      = lipgloss.NewStyle().Foreground(ColorSuccess)
)
