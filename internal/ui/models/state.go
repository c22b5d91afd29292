// Package models holds the state rendered by the chat views.
package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// Message roles shown in the transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleError     = "error"
)

// Message is one transcript entry.
type Message struct {
	Role    string
	Agent   string
	Content string
}

// PermissionRequest is a pending red-action confirmation.
type PermissionRequest struct {
	Prompt string
}

// State is everything the views need to draw a frame.
type State struct {
	Width  int
	Height int

	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Messages  []Message
	CanSubmit bool

	PendingPermission *PermissionRequest

	StatusPhase   string
	StatusMessage string
	DotCount      int

	// Agent is the specialist handling the current request.
	Agent string
	// CurrentModel names the active backend model.
	CurrentModel string
}
