package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/donna/internal/ui/models"
	"github.com/Cyclone1070/donna/internal/ui/services"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State) string {
	var icon string
	style := StatusDefaultStyle

	switch s.StatusPhase {
	case services.PhaseExecuting:
		icon = s.Spinner.View()
		style = StatusExecutingStyle
	case services.PhaseDone:
		icon = "✔"
		style = StatusDoneStyle
	case services.PhaseThinking:
		dots := strings.Repeat(".", s.DotCount)
		label := "Thinking"
		if s.Agent != "" {
			label = "@" + s.Agent + " is thinking"
		}
		return StatusThinkingStyle.Render(fmt.Sprintf("%s %s%s", s.Spinner.View(), label, dots))
	}

	status := "Ready"
	if s.StatusMessage != "" {
		status = fmt.Sprintf("%s %s", icon, s.StatusMessage)
	} else if s.StatusPhase != services.PhaseReady && s.StatusPhase != "" {
		status = icon
	}

	left := style.Render(status)
	if s.CurrentModel == "" {
		return left
	}
	return fmt.Sprintf("%s  %s", left, StatusDefaultStyle.Render(s.CurrentModel))
}
