package views

import (
	"github.com/Cyclone1070/donna/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderRoot renders the complete UI layout
func RenderRoot(s models.State) string {
	bottom := RenderInput(s)
	if s.PendingPermission != nil {
		bottom = RenderPermission(s)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderChat(s),
		bottom,
		RenderStatus(s),
	)
}
