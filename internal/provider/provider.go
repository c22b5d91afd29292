package provider

import (
	"context"

	"github.com/Cyclone1070/donna/internal/tool"
)

// Provider is a language model backend.
type Provider interface {
	// Chat sends the conversation to the model. A nil tools slice offers no
	// tool schemas, forcing a plain-text answer.
	Chat(ctx context.Context, messages []Message, tools []tool.Declaration) (*Response, error)
}
