package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runCall struct {
	history []provider.Message
	message string
}

type mockRunner struct {
	runFunc func(ctx context.Context, history []provider.Message, msg string) (string, error)
	calls   []runCall
}

func (m *mockRunner) Run(ctx context.Context, history []provider.Message, msg string) (string, error) {
	m.calls = append(m.calls, runCall{history: append([]provider.Message(nil), history...), message: msg})
	if m.runFunc != nil {
		return m.runFunc(ctx, history, msg)
	}
	return "answer to " + msg, nil
}

type mockRouter struct {
	routeFunc func(ctx context.Context, text string) (string, string)
}

func (m *mockRouter) Route(ctx context.Context, text string) (string, string) {
	return m.routeFunc(ctx, text)
}

// tagRouter routes "@name rest" to name and everything else to coder.
func tagRouter() *mockRouter {
	return &mockRouter{routeFunc: func(ctx context.Context, text string) (string, string) {
		if strings.HasPrefix(text, "@") {
			name, rest, _ := strings.Cut(text[1:], " ")
			return name, rest
		}
		return "coder", text
	}}
}

func newTestSession(coder, sysadmin, critic *mockRunner, cfg Config) *Session {
	if cfg.Default == "" {
		cfg.Default = "coder"
	}
	var c AgentRunner
	if critic != nil {
		c = critic
	}
	return New(tagRouter(), map[string]AgentRunner{"coder": coder, "sysadmin": sysadmin}, c, cfg, nil, nil)
}

func TestHandle_FirstRequestNotAugmented(t *testing.T) {
	coder := &mockRunner{}
	s := newTestSession(coder, &mockRunner{}, nil, Config{})

	out, err := s.Handle(context.Background(), "fix the build")

	require.NoError(t, err)
	assert.Equal(t, "answer to fix the build", out)
	require.Len(t, coder.calls, 1)
	assert.Equal(t, "fix the build", coder.calls[0].message)
	assert.Empty(t, coder.calls[0].history)
}

func TestHandle_HistoryPerSpecialist(t *testing.T) {
	coder := &mockRunner{}
	sysadmin := &mockRunner{}
	s := newTestSession(coder, sysadmin, nil, Config{})

	_, err := s.Handle(context.Background(), "one")
	require.NoError(t, err)
	_, err = s.Handle(context.Background(), "@sysadmin two")
	require.NoError(t, err)
	_, err = s.Handle(context.Background(), "three")
	require.NoError(t, err)

	assert.Empty(t, sysadmin.calls[0].history)
	require.Len(t, coder.calls, 2)
	assert.Equal(t, []provider.Message{
		{Role: provider.RoleUser, Content: "one"},
		{Role: provider.RoleAssistant, Content: "answer to one"},
	}, coder.calls[1].history)

	// History stores the cleaned request, not the augmented one.
	assert.Equal(t, "two", s.History("sysadmin")[0].Content)
	assert.Len(t, s.Log(), 3)
}

func TestHandle_CrossSpecialistContext(t *testing.T) {
	coder := &mockRunner{}
	sysadmin := &mockRunner{}
	s := newTestSession(coder, sysadmin, nil, Config{})

	_, err := s.Handle(context.Background(), "write a script")
	require.NoError(t, err)
	_, err = s.Handle(context.Background(), "@sysadmin run it")
	require.NoError(t, err)

	want := "[Previous conversation context]\n" +
		"[@coder] User asked: write a script\n" +
		"[@coder] Responded: answer to write a script\n\n" +
		"[Current request]\nrun it"
	assert.Equal(t, want, sysadmin.calls[0].message)
}

func TestHandle_ContextWindowAndTruncation(t *testing.T) {
	coder := &mockRunner{runFunc: func(ctx context.Context, history []provider.Message, msg string) (string, error) {
		return strings.Repeat("x", 20), nil
	}}
	s := newTestSession(coder, &mockRunner{}, nil, Config{ContextWindow: 2, ContextChars: 5})

	for _, req := range []string{"r1", "r2", "r3", "r4"} {
		_, err := s.Handle(context.Background(), req)
		require.NoError(t, err)
	}

	last := coder.calls[3].message
	assert.NotContains(t, last, "User asked: r1")
	assert.Contains(t, last, "User asked: r2")
	assert.Contains(t, last, "User asked: r3")
	assert.Contains(t, last, "Responded: xxxxx\n")
	assert.NotContains(t, last, "xxxxxx")
	assert.True(t, strings.HasSuffix(last, "[Current request]\nr4"))
}

func TestHandle_ReviewStoresDraftInHistory(t *testing.T) {
	coder := &mockRunner{runFunc: func(ctx context.Context, history []provider.Message, msg string) (string, error) {
		return "draft", nil
	}}
	critic := &mockRunner{runFunc: func(ctx context.Context, history []provider.Message, msg string) (string, error) {
		return "polished", nil
	}}
	s := newTestSession(coder, &mockRunner{}, critic, Config{Review: true})

	out, err := s.Handle(context.Background(), "explain")

	require.NoError(t, err)
	assert.Equal(t, "polished", out)
	require.Len(t, critic.calls, 1)
	assert.Nil(t, critic.calls[0].history)
	assert.Contains(t, critic.calls[0].message, `The user asked: "explain"`)
	assert.Contains(t, critic.calls[0].message, "---\ndraft\n---")
	assert.Equal(t, "draft", s.History("coder")[1].Content)
	assert.Equal(t, "draft", s.Log()[0].Response)
}

func TestHandle_ReviewDisabled(t *testing.T) {
	critic := &mockRunner{}
	s := newTestSession(&mockRunner{}, &mockRunner{}, critic, Config{})

	_, err := s.Handle(context.Background(), "explain")

	require.NoError(t, err)
	assert.Empty(t, critic.calls)

	s.SetReview(true)
	_, err = s.Handle(context.Background(), "again")
	require.NoError(t, err)
	assert.Len(t, critic.calls, 1)
}

func TestHandle_BackendErrorPropagates(t *testing.T) {
	backendErr := errors.New("ollama unreachable")
	coder := &mockRunner{runFunc: func(ctx context.Context, history []provider.Message, msg string) (string, error) {
		return "", backendErr
	}}
	s := newTestSession(coder, &mockRunner{}, nil, Config{})

	_, err := s.Handle(context.Background(), "hi")

	assert.ErrorIs(t, err, backendErr)
	assert.Empty(t, s.Log())
	assert.Empty(t, s.History("coder"))
}

func TestHandle_UnknownSpecialistFallsBack(t *testing.T) {
	coder := &mockRunner{}
	s := newTestSession(coder, &mockRunner{}, nil, Config{})

	_, err := s.Handle(context.Background(), "@chef cook")

	require.NoError(t, err)
	require.Len(t, coder.calls, 1)
	assert.Equal(t, "coder", s.Log()[0].Agent)
}

func TestHandleWith_PinnedAgent(t *testing.T) {
	sysadmin := &mockRunner{}
	s := newTestSession(&mockRunner{}, sysadmin, nil, Config{})

	_, err := s.HandleWith(context.Background(), "SysAdmin", "check disk")

	require.NoError(t, err)
	require.Len(t, sysadmin.calls, 1)
	assert.Equal(t, "check disk", sysadmin.calls[0].message)
}

func TestHandle_Events(t *testing.T) {
	events := make(chan workflow.Event, 10)
	s := New(tagRouter(), map[string]AgentRunner{"coder": &mockRunner{}}, nil, Config{Default: "coder"}, events, nil)

	_, err := s.Handle(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, workflow.RoutedEvent{Agent: "coder"}, <-events)
	assert.Equal(t, workflow.TextEvent{Agent: "coder", Text: "answer to hi"}, <-events)
	assert.Equal(t, workflow.DoneEvent{}, <-events)
}
