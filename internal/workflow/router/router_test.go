package router

import (
	"context"
	"errors"
	"testing"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	reply string
	err   error
	calls int
	last  []provider.Message
	tools []tool.Declaration
}

func (m *mockProvider) Chat(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	m.calls++
	m.last = messages
	m.tools = tools
	if m.err != nil {
		return nil, m.err
	}
	return &provider.Response{Content: m.reply}, nil
}

func newTestRouter(p llmProvider) *Router {
	return New(p, Config{
		Specialists:  []string{"coder", "sysadmin"},
		Default:      "coder",
		KeywordRoute: "sysadmin",
		Keywords:     DefaultKeywords,
	}, nil)
}

func TestRoute_Tag(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantAgent   string
		wantCleaned string
	}{
		{"leading tag", "@coder fix the build", "coder", "fix the build"},
		{"capitalized tag", "@Sysadmin check disk", "sysadmin", "check disk"},
		{"tag in middle", "please @coder fix it", "coder", "please fix it"},
		{"tag beats keyword", "@coder install the linter config", "coder", "install the linter config"},
		{"sysadmin tag beats coder words", "@sysadmin refactor this function", "sysadmin", "refactor this function"},
		{"earliest tag wins", "@sysadmin ask @coder later", "sysadmin", "ask @coder later"},
		{"tag only keeps original", "@coder", "coder", "@coder"},
		{"only first occurrence stripped", "@coder and @coder", "coder", "and @coder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp := &mockProvider{}
			agent, cleaned := newTestRouter(mp).Route(context.Background(), tt.input)
			assert.Equal(t, tt.wantAgent, agent)
			assert.Equal(t, tt.wantCleaned, cleaned)
			assert.Equal(t, 0, mp.calls)
		})
	}
}

func TestRoute_TagMustBeWholeName(t *testing.T) {
	mp := &mockProvider{reply: `{"route": "coder"}`}
	agent, cleaned := newTestRouter(mp).Route(context.Background(), "email @coders team")
	assert.Equal(t, "coder", agent)
	assert.Equal(t, "email @coders team", cleaned)
	assert.Equal(t, 1, mp.calls)
}

func TestRoute_KeywordSkipsModel(t *testing.T) {
	mp := &mockProvider{reply: `{"route": "coder"}`}
	agent, cleaned := newTestRouter(mp).Route(context.Background(), "Install ripgrep for me")

	assert.Equal(t, "sysadmin", agent)
	assert.Equal(t, "Install ripgrep for me", cleaned)
	assert.Equal(t, 0, mp.calls)
}

func TestRoute_KeywordWholeWordOnly(t *testing.T) {
	mp := &mockProvider{reply: `{"route": "coder"}`}
	agent, _ := newTestRouter(mp).Route(context.Background(), "rename the reinstaller variable")

	assert.Equal(t, "coder", agent)
	assert.Equal(t, 1, mp.calls)
}

func TestRoute_ModelClassification(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"plain json", `{"route": "sysadmin"}`, nil, "sysadmin"},
		{"json in prose", "Sure! Here you go: {\"route\": \"sysadmin\"} hope that helps", nil, "sysadmin"},
		{"unknown route", `{"route": "chef"}`, nil, "coder"},
		{"garbage", "I think the coder should do it", nil, "coder"},
		{"broken json in prose", "answer: {route: sysadmin}", nil, "coder"},
		{"backend failure", "", errors.New("connection refused"), "coder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp := &mockProvider{reply: tt.reply, err: tt.err}
			agent, cleaned := newTestRouter(mp).Route(context.Background(), "what does this regex do")
			assert.Equal(t, tt.want, agent)
			assert.Equal(t, "what does this regex do", cleaned)
			assert.Equal(t, 1, mp.calls)
		})
	}
}

func TestRoute_ClassificationRequest(t *testing.T) {
	mp := &mockProvider{reply: `{"route": "coder"}`}
	newTestRouter(mp).Route(context.Background(), "explain generics")

	require.Len(t, mp.last, 2)
	assert.Equal(t, provider.RoleSystem, mp.last[0].Role)
	assert.Equal(t, DefaultPrompt, mp.last[0].Content)
	assert.Equal(t, "explain generics", mp.last[1].Content)
	assert.Nil(t, mp.tools)
}

func TestRoute_NoProviderUsesDefault(t *testing.T) {
	agent, _ := newTestRouter(nil).Route(context.Background(), "explain generics")
	assert.Equal(t, "coder", agent)
}
