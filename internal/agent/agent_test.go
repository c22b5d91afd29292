package agent

import (
	"context"
	"testing"

	"github.com/Cyclone1070/donna/internal/config"
	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/Cyclone1070/donna/internal/tool/catalog"
	"github.com/Cyclone1070/donna/internal/workflow/loop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockProvider struct {
	Calls [][]tool.Declaration
}

func (m *MockProvider) Chat(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	m.Calls = append(m.Calls, tools)
	return &provider.Response{Content: "done"}, nil
}

type MockFeedback struct {
	Asked []string
}

func (m *MockFeedback) Read(agent string) (string, error) {
	m.Asked = append(m.Asked, agent)
	return "- [2026-01-01 10:00 UTC] prefer tabs", nil
}

func TestPrompt_EveryDefinitionHasOne(t *testing.T) {
	for _, name := range append(Names(), Critic) {
		prompt, err := Prompt(name)
		require.NoError(t, err, name)
		assert.Contains(t, prompt, "@"+name)
	}
}

func TestPrompt_Unknown(t *testing.T) {
	_, err := Prompt("chef")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("SysAdmin")
	require.True(t, ok)
	assert.Contains(t, d.Tools, catalog.KillProcess)
	assert.NotContains(t, d.Tools, catalog.WriteFile)

	d, ok = Lookup(Critic)
	require.True(t, ok)
	assert.Empty(t, d.Tools)

	_, ok = Lookup("chef")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{Coder, SysAdmin}, Names())
}

func TestSpecialists_ToolsExistInCatalog(t *testing.T) {
	reg, err := catalog.New(config.DefaultConfig().Tools, catalog.Options{BaseDir: t.TempDir()})
	require.NoError(t, err)
	for _, d := range Specialists() {
		for _, name := range d.Tools {
			_, ok := reg.Lookup(name)
			assert.True(t, ok, "%s offers unknown tool %s", d.Name, name)
		}
	}
}

func TestBuild(t *testing.T) {
	fb := &MockFeedback{}
	p := &MockProvider{}
	reg := tool.NewRegistry()

	team, err := Build(Deps{
		Provider:    p,
		Tools:       reg,
		Feedback:    fb,
		Environment: "## System Environment (auto-detected)\n- OS: linux/amd64",
	})
	require.NoError(t, err)
	require.Len(t, team.Specialists, 2)
	require.NotNil(t, team.Critic)

	coder := team.Specialists[Coder].(*loop.Loop)
	msg := coder.SystemMessage()
	assert.Contains(t, msg, "You are @coder")
	assert.Contains(t, msg, "## System Environment (auto-detected)")
	assert.Contains(t, msg, "## Past Corrections")
	assert.Contains(t, msg, "prefer tabs")

	criticLoop := team.Critic.(*loop.Loop)
	msg = criticLoop.SystemMessage()
	assert.Contains(t, msg, "You are @critic")
	assert.NotContains(t, msg, "System Environment")
	assert.NotContains(t, msg, "Past Corrections")
	assert.NotContains(t, fb.Asked, Critic)

	out, err := team.Critic.Run(context.Background(), nil, "review this")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	require.Len(t, p.Calls, 1)
	assert.Nil(t, p.Calls[0])
}
