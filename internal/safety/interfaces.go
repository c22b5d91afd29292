package safety

import (
	"context"

	"github.com/Cyclone1070/donna/internal/tool"
)

// operator is the human who approves red actions.
type operator interface {
	// ReadPermission shows prompt and blocks until the operator answers
	// with a line of text.
	ReadPermission(ctx context.Context, prompt string) (string, error)
}

// toolRegistry resolves tool names.
type toolRegistry interface {
	Lookup(name string) (*tool.Entry, bool)
}
