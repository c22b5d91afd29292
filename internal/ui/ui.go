package ui

import (
	"context"

	"github.com/Cyclone1070/donna/internal/ui/models"
	"github.com/Cyclone1070/donna/internal/ui/services"
	"github.com/Cyclone1070/donna/internal/workflow"
	tea "github.com/charmbracelet/bubbletea"
)

// Answers sent back for confirmation prompts.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// UI implements the UserInterface using Bubble Tea
type UI struct {
	program *tea.Program

	// Session -> UI channels
	inputReq    chan inputRequest
	inputResp   chan string
	permReq     chan permRequest
	permResp    chan string
	statusChan  chan statusMsg
	messageChan chan models.Message
	eventChan   chan workflow.Event

	// Ready signal
	readyChan chan struct{}
}

// Internal message types
type inputRequest struct {
	Prompt string
}

type permRequest struct {
	Prompt string
}

type statusMsg struct {
	Phase   string
	Message string
}

// UIChannels holds the channels for UI communication
type UIChannels struct {
	InputReq    chan inputRequest
	InputResp   chan string
	PermReq     chan permRequest
	PermResp    chan string
	StatusChan  chan statusMsg
	MessageChan chan models.Message
	EventChan   chan workflow.Event
	ReadyChan   chan struct{} // Signals when UI is ready to accept requests
}

// NewUIChannels creates a new UIChannels struct with default buffers
func NewUIChannels() *UIChannels {
	return &UIChannels{
		InputReq:    make(chan inputRequest),
		InputResp:   make(chan string),
		PermReq:     make(chan permRequest),
		PermResp:    make(chan string),
		StatusChan:  make(chan statusMsg, 10),
		MessageChan: make(chan models.Message, 10),
		EventChan:   make(chan workflow.Event, 64),
		ReadyChan:   make(chan struct{}),
	}
}

// NewUI creates a new Bubble Tea UI. modelName is shown in the status bar.
func NewUI(
	channels *UIChannels,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
	modelName string,
) *UI {
	ui := &UI{
		inputReq:    channels.InputReq,
		inputResp:   channels.InputResp,
		permReq:     channels.PermReq,
		permResp:    channels.PermResp,
		statusChan:  channels.StatusChan,
		messageChan: channels.MessageChan,
		eventChan:   channels.EventChan,
		readyChan:   channels.ReadyChan,
	}

	model := newBubbleTeaModel(channels, renderer, spinnerFactory)
	model.state.CurrentModel = modelName

	ui.program = tea.NewProgram(model, tea.WithAltScreen())

	return ui
}

// Start runs the program until the user quits.
func (u *UI) Start() error {
	_, err := u.program.Run()
	return err
}

// ReadInput prompts the user for input
func (u *UI) ReadInput(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case u.inputReq <- inputRequest{Prompt: prompt}:
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case response := <-u.inputResp:
			return response, nil
		}
	}
}

// ReadPermission asks the user to confirm an action
func (u *UI) ReadPermission(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return AnswerNo, ctx.Err()
	case u.permReq <- permRequest{Prompt: prompt}:
		select {
		case <-ctx.Done():
			return AnswerNo, ctx.Err()
		case answer := <-u.permResp:
			return answer, nil
		}
	}
}

// WriteStatus updates the status bar
func (u *UI) WriteStatus(phase string, message string) {
	select {
	case u.statusChan <- statusMsg{Phase: phase, Message: message}:
	default:
		// Drop if channel is full
	}
}

// WriteMessage adds a plain message to the transcript
func (u *UI) WriteMessage(content string) {
	u.write(models.Message{Role: models.RoleAssistant, Content: content})
}

// WriteError adds an error line to the transcript
func (u *UI) WriteError(message string) {
	u.write(models.Message{Role: models.RoleError, Content: message})
}

func (u *UI) write(msg models.Message) {
	select {
	case u.messageChan <- msg:
	default:
		// Drop if channel is full
	}
}

// Events returns the channel workflow events are published on.
func (u *UI) Events() chan<- workflow.Event {
	return u.eventChan
}

// Ready returns a channel that is closed when the UI is ready to accept requests
func (u *UI) Ready() <-chan struct{} {
	return u.readyChan
}
