package loop

import (
	"context"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/safety"
	"github.com/Cyclone1070/donna/internal/tool"
)

// llmProvider communicates with an LLM.
type llmProvider interface {
	// Chat sends messages to the LLM and returns its response.
	Chat(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error)
}

// toolCatalog exposes tool metadata. Execution goes through toolGate only.
type toolCatalog interface {
	Lookup(name string) (*tool.Entry, bool)
	Declarations(names ...string) []tool.Declaration
}

// toolGate executes tool calls behind the safety checks.
type toolGate interface {
	Execute(ctx context.Context, call provider.ToolCall) safety.Result
}

// feedbackReader supplies persisted corrections for an agent.
type feedbackReader interface {
	Read(agent string) (string, error)
}
