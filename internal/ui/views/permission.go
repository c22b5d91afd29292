package views

import (
	"strings"

	"github.com/Cyclone1070/donna/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderPermission renders the pending confirmation box, or "" when none
// is pending.
func RenderPermission(s models.State) string {
	if s.PendingPermission == nil {
		return ""
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(ColorDanger).Render("⚠ Confirmation required"),
		"",
		s.PendingPermission.Prompt,
		"",
		lipgloss.NewStyle().Faint(true).Render("y: Allow  n/Esc: Deny"),
	}
	return PermissionBoxStyle.Render(strings.Join(lines, "\n"))
}
