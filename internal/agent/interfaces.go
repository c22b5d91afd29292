package agent

import (
	"context"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/safety"
	"github.com/Cyclone1070/donna/internal/tool"
)

type loopProvider interface {
	Chat(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error)
}

type loopCatalog interface {
	Lookup(name string) (*tool.Entry, bool)
	Declarations(names ...string) []tool.Declaration
}

type loopGate interface {
	Execute(ctx context.Context, call provider.ToolCall) safety.Result
}

type feedbackReader interface {
	Read(agent string) (string, error)
}
