package ui

import (
	"context"

	"github.com/Cyclone1070/donna/internal/workflow"
)

// UserInterface defines the contract for all user interactions.
// It follows a Read/Write pattern for clarity.
//
// Context Usage:
// Read methods block until the user answers or ctx is cancelled, in which
// case they return ctx.Err().
type UserInterface interface {
	// ReadInput prompts the user for the next request.
	ReadInput(ctx context.Context, prompt string) (string, error)

	// ReadPermission shows a confirmation prompt and returns the raw answer.
	ReadPermission(ctx context.Context, prompt string) (string, error)

	// WriteStatus displays ephemeral status updates (e.g., "Thinking...")
	WriteStatus(phase string, message string)

	// WriteMessage displays text that did not come from an agent, such as help.
	WriteMessage(content string)

	// WriteError displays a failed request.
	WriteError(message string)

	// Events receives workflow events for display.
	Events() chan<- workflow.Event
}
