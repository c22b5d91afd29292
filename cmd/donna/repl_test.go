package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Cyclone1070/donna/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUI replays scripted input lines and records output.
type MockUI struct {
	Inputs   []string
	Messages []string
	Errors   []string
	events   chan workflow.Event
}

func (m *MockUI) ReadInput(ctx context.Context, prompt string) (string, error) {
	if len(m.Inputs) == 0 {
		return "", io.EOF
	}
	line := m.Inputs[0]
	m.Inputs = m.Inputs[1:]
	return line, nil
}

func (m *MockUI) ReadPermission(ctx context.Context, prompt string) (string, error) {
	return "n", nil
}

func (m *MockUI) WriteStatus(phase, message string) {}

func (m *MockUI) WriteMessage(content string) { m.Messages = append(m.Messages, content) }

func (m *MockUI) WriteError(message string) { m.Errors = append(m.Errors, message) }

func (m *MockUI) Events() chan<- workflow.Event {
	if m.events == nil {
		m.events = make(chan workflow.Event, 16)
	}
	return m.events
}

type handled struct {
	Agent string
	Input string
}

type MockHandler struct {
	Calls     []handled
	HandleErr error
}

func (m *MockHandler) Handle(ctx context.Context, input string) (string, error) {
	m.Calls = append(m.Calls, handled{Input: input})
	return "ok", m.HandleErr
}

func (m *MockHandler) HandleWith(ctx context.Context, agent, input string) (string, error) {
	m.Calls = append(m.Calls, handled{Agent: agent, Input: input})
	return "ok", nil
}

type MockClipboard struct {
	Text string
	Err  error
}

func (m *MockClipboard) ReadAll() (string, error) { return m.Text, m.Err }

func TestRepl_RoutesAndStopsAtExit(t *testing.T) {
	view := &MockUI{Inputs: []string{"  ", "list files", "help", "EXIT", "never read"}}
	h := &MockHandler{}

	err := repl(context.Background(), view, h, &MockClipboard{}, "", zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, []handled{{Input: "list files"}}, h.Calls)
	require.Len(t, view.Messages, 2)
	assert.Contains(t, view.Messages[0], "@fix")
	assert.Equal(t, "Goodbye.", view.Messages[1])
	assert.Equal(t, []string{"never read"}, view.Inputs)
}

func TestRepl_EOFEndsQuietly(t *testing.T) {
	h := &MockHandler{}

	err := repl(context.Background(), &MockUI{}, h, &MockClipboard{}, "", zap.NewNop())

	assert.NoError(t, err)
	assert.Empty(t, h.Calls)
}

func TestRepl_PinnedAgent(t *testing.T) {
	view := &MockUI{Inputs: []string{"restart nginx"}}
	h := &MockHandler{}

	require.NoError(t, repl(context.Background(), view, h, &MockClipboard{}, "sysadmin", zap.NewNop()))

	assert.Equal(t, []handled{{Agent: "sysadmin", Input: "restart nginx"}}, h.Calls)
}

func TestRepl_ClipboardShortcuts(t *testing.T) {
	view := &MockUI{Inputs: []string{"@fix", "@explain"}}
	h := &MockHandler{}
	clip := &MockClipboard{Text: "panic: nil map"}

	require.NoError(t, repl(context.Background(), view, h, clip, "", zap.NewNop()))

	require.Len(t, h.Calls, 2)
	assert.Equal(t, "coder", h.Calls[0].Agent)
	assert.Equal(t, "Fix this error:\n\n```\npanic: nil map\n```", h.Calls[0].Input)
	assert.Equal(t, "Explain this:\n\n```\npanic: nil map\n```", h.Calls[1].Input)
}

func TestRepl_ShortcutFailuresAreShown(t *testing.T) {
	view := &MockUI{Inputs: []string{"@fix"}}
	h := &MockHandler{}

	require.NoError(t, repl(context.Background(), view, h, &MockClipboard{Text: "  "}, "", zap.NewNop()))

	assert.Empty(t, h.Calls)
	assert.Equal(t, []string{"clipboard is empty"}, view.Errors)
}

func TestRepl_RequestErrorContinues(t *testing.T) {
	view := &MockUI{Inputs: []string{"first", "second"}}
	h := &MockHandler{HandleErr: errors.New("backend unavailable")}

	require.NoError(t, repl(context.Background(), view, h, &MockClipboard{}, "", zap.NewNop()))

	assert.Len(t, h.Calls, 2)
	assert.Equal(t, []string{"Error: backend unavailable", "Error: backend unavailable"}, view.Errors)
}

func TestRepl_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	view := &MockUI{Inputs: []string{"first", "second"}}
	h := &MockHandler{HandleErr: context.Canceled}

	err := repl(ctx, view, h, &MockClipboard{}, "", zap.NewNop())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, h.Calls, 1)
}

func TestExpandShortcut(t *testing.T) {
	out, shortcut, err := expandShortcut("hello", &MockClipboard{})
	require.NoError(t, err)
	assert.False(t, shortcut)
	assert.Equal(t, "hello", out)

	_, shortcut, err = expandShortcut("@FIX", &MockClipboard{Err: errors.New("no xclip")})
	assert.True(t, shortcut)
	assert.ErrorContains(t, err, "could not access clipboard")
}

func TestCheckSpecialist(t *testing.T) {
	assert.NoError(t, checkSpecialist("coder"))
	assert.NoError(t, checkSpecialist("SysAdmin"))
	assert.Error(t, checkSpecialist("critic"))
	assert.Error(t, checkSpecialist("chef"))
}
