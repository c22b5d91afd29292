package ui

import (
	"strings"
	"time"

	"github.com/Cyclone1070/donna/internal/ui/models"
	"github.com/Cyclone1070/donna/internal/ui/services"
	"github.com/Cyclone1070/donna/internal/ui/views"
	"github.com/Cyclone1070/donna/internal/workflow"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	// Dependencies
	renderer services.MarkdownRenderer

	// Channels for communication with the session
	inputReq    <-chan inputRequest
	inputResp   chan<- string
	permReq     <-chan permRequest
	permResp    chan<- string
	statusChan  <-chan statusMsg
	messageChan <-chan models.Message
	eventChan   <-chan workflow.Event

	// Ready signal
	readyChan chan<- struct{}
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state)
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// newBubbleTeaModel creates a new Bubble Tea model
func newBubbleTeaModel(
	channels *UIChannels,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "Ask Donna... (@coder, @sysadmin, @fix, @explain, help)"
	ti.Focus()

	vp := viewport.New(80, 20)

	return BubbleTeaModel{
		state: models.State{
			Input:    ti,
			Viewport: vp,
			Spinner:  spinnerFactory(),
			Messages: []models.Message{},
		},
		renderer:    renderer,
		inputReq:    channels.InputReq,
		inputResp:   channels.InputResp,
		permReq:     channels.PermReq,
		permResp:    channels.PermResp,
		statusChan:  channels.StatusChan,
		messageChan: channels.MessageChan,
		eventChan:   channels.EventChan,
		readyChan:   channels.ReadyChan,
	}
}

// Internal messages
type tickMsg time.Time
type inputRequestMsg inputRequest
type permRequestMsg permRequest
type statusUpdateMsg statusMsg
type messageReceivedMsg models.Message
type eventMsg struct{ event workflow.Event }

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	if m.readyChan != nil {
		close(m.readyChan)
	}

	return tea.Batch(
		textinput.Blink,
		m.state.Spinner.Tick,
		tick(),
		listenForInputRequests(m.inputReq),
		listenForPermRequests(m.permReq),
		listenForStatus(m.statusChan),
		listenForMessages(m.messageChan),
		listenForEvents(m.eventChan),
	)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = msg.Height - 6 // input box and status line
		m.updateViewport()
		return m, nil

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case inputRequestMsg:
		m.state.CanSubmit = true
		return m, listenForInputRequests(m.inputReq)

	case permRequestMsg:
		m.state.PendingPermission = &models.PermissionRequest{Prompt: msg.Prompt}
		return m, listenForPermRequests(m.permReq)

	case statusUpdateMsg:
		m.state.StatusPhase = msg.Phase
		m.state.StatusMessage = msg.Message
		return m, listenForStatus(m.statusChan)

	case messageReceivedMsg:
		m.appendMessage(models.Message(msg))
		return m, listenForMessages(m.messageChan)

	case eventMsg:
		m.applyEvent(msg.event)
		return m, listenForEvents(m.eventChan)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// applyEvent updates the status bar and transcript from a workflow event.
func (m *BubbleTeaModel) applyEvent(ev workflow.Event) {
	if phase, message, ok := services.StatusFor(ev); ok {
		m.state.StatusPhase = phase
		m.state.StatusMessage = message
	}
	switch e := ev.(type) {
	case workflow.RoutedEvent:
		m.state.Agent = e.Agent
		m.state.StatusMessage = ""
	case workflow.ToolEndEvent:
		m.appendMessage(models.Message{Role: models.RoleTool, Agent: e.Agent, Content: services.ToolLine(e)})
	case workflow.TextEvent:
		m.appendMessage(models.Message{Role: models.RoleAssistant, Agent: e.Agent, Content: e.Text})
	case workflow.DoneEvent:
		m.state.Agent = ""
	}
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.state.PendingPermission != nil {
		switch strings.ToLower(msg.String()) {
		case "y":
			m.permResp <- AnswerYes
			m.state.PendingPermission = nil
		case "n", "esc":
			m.permResp <- AnswerNo
			m.state.PendingPermission = nil
		}
		return m, nil
	}

	switch msg.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		return m, cmd

	case "enter":
		input := strings.TrimSpace(m.state.Input.Value())
		if !m.state.CanSubmit || input == "" {
			return m, nil
		}
		if input == "/clear" {
			m.state.Messages = []models.Message{}
			m.updateViewport()
			m.state.Input.SetValue("")
			return m, nil
		}

		m.appendMessage(models.Message{Role: models.RoleUser, Content: input})
		m.inputResp <- input
		m.state.Input.SetValue("")
		m.state.CanSubmit = false
		return m, nil
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

func (m *BubbleTeaModel) appendMessage(msg models.Message) {
	m.state.Messages = append(m.state.Messages, msg)
	m.updateViewport()
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	width := m.state.Width - 4
	if width <= 0 {
		width = 76
	}
	m.state.Viewport.SetContent(views.FormatChatContent(m.state.Messages, width, m.renderer))
	m.state.Viewport.GotoBottom()
}

// Helper commands for listening to channels
func listenForInputRequests(ch <-chan inputRequest) tea.Cmd {
	return func() tea.Msg {
		return inputRequestMsg(<-ch)
	}
}

func listenForPermRequests(ch <-chan permRequest) tea.Cmd {
	return func() tea.Msg {
		return permRequestMsg(<-ch)
	}
}

func listenForStatus(ch <-chan statusMsg) tea.Cmd {
	return func() tea.Msg {
		return statusUpdateMsg(<-ch)
	}
}

func listenForMessages(ch <-chan models.Message) tea.Cmd {
	return func() tea.Msg {
		return messageReceivedMsg(<-ch)
	}
}

func listenForEvents(ch <-chan workflow.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{event: ev}
	}
}

func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
