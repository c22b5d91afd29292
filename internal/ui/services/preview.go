// Package services turns workflow data into display text.
package services

import (
	"fmt"

	"github.com/Cyclone1070/donna/internal/workflow"
)

// Status phases.
const (
	PhaseReady     = "ready"
	PhaseThinking  = "thinking"
	PhaseExecuting = "executing"
	PhaseDone      = "done"
)

// FormatToolDescription describes a tool call by its most telling argument.
func FormatToolDescription(name string, args map[string]any) string {
	key := ""
	switch name {
	case "read_file", "write_file", "delete_file", "list_dir":
		key = "path"
	case "find_files":
		key = "pattern"
	case "execute_shell":
		if cmd, ok := args["command"].(string); ok {
			return fmt.Sprintf("%s '%s'", name, cmd)
		}
	case "launch_app":
		key = "target"
	case "kill_process":
		if pid, ok := args["pid"]; ok {
			return fmt.Sprintf("%s %v", name, pid)
		}
	}
	if key != "" {
		if v, ok := args[key].(string); ok && v != "" {
			return fmt.Sprintf("%s %s", name, v)
		}
	}
	return name
}

// StatusFor maps an event to a status bar update. ok is false for events
// that do not change the status.
func StatusFor(ev workflow.Event) (phase, message string, ok bool) {
	switch e := ev.(type) {
	case workflow.RoutedEvent:
		return PhaseThinking, "@" + e.Agent, true
	case workflow.ThinkingEvent:
		return PhaseThinking, "", true
	case workflow.ToolStartEvent:
		return PhaseExecuting, e.RequestDisplay, true
	case workflow.ToolEndEvent:
		return PhaseDone, fmt.Sprintf("%s (%s)", e.ToolName, e.Outcome), true
	case workflow.StatusEvent:
		return PhaseExecuting, e.Message, true
	case workflow.DoneEvent:
		return PhaseReady, "", true
	}
	return "", "", false
}

// ToolLine is the transcript line recorded when a tool call ends.
func ToolLine(e workflow.ToolEndEvent) string {
	icon := "✔"
	switch e.Outcome {
	case workflow.OutcomeError:
		icon = "✘"
	case workflow.OutcomeDenied:
		icon = "⊘"
	case workflow.OutcomeSkipped:
		icon = "↷"
	}
	line := fmt.Sprintf("%s %s [%s]", icon, e.ToolName, e.Outcome)
	if e.Preview != "" {
		line += "\n" + e.Preview
	}
	return line
}
