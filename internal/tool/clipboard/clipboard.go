// Package clipboard exposes the system clipboard as tools.
package clipboard

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/atotto/clipboard"
)

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// System is the OS clipboard.
type System struct{}

func (System) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (System) WriteAll(text string) error { return clipboard.WriteAll(text) }

// AccessError wraps clipboard failures, typically a missing helper such as
// xclip on Linux.
type AccessError struct {
	Op    string
	Cause error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("clipboard %s failed: %v", e.Op, e.Cause)
}
func (e *AccessError) Unwrap() error { return e.Cause }

// Tools holds both clipboard tools.
type Tools struct {
	cb Clipboard
}

func New(cb Clipboard) *Tools {
	if cb == nil {
		cb = System{}
	}
	return &Tools{cb: cb}
}

type WriteRequest struct {
	Text string `json:"text"`
}

// Read returns the clipboard text.
func (t *Tools) Read(ctx context.Context) (string, error) {
	text, err := t.cb.ReadAll()
	if err != nil {
		return "", &AccessError{Op: "read", Cause: err}
	}
	return text, nil
}

// Write replaces the clipboard text.
func (t *Tools) Write(ctx context.Context, text string) error {
	if err := t.cb.WriteAll(text); err != nil {
		return &AccessError{Op: "write", Cause: err}
	}
	return nil
}

// Entries returns read_clipboard and write_clipboard.
func (t *Tools) Entries() []tool.Entry {
	return []tool.Entry{
		{
			Name:        "read_clipboard",
			Description: "Read the current text contents of the system clipboard.",
			Safety:      tool.Green,
			Func: func(ctx context.Context, _ map[string]any) (string, error) {
				text, err := t.Read(ctx)
				if err != nil {
					return "", err
				}
				if text == "" {
					return "(clipboard is empty)", nil
				}
				return text, nil
			},
		},
		{
			Name:        "write_clipboard",
			Description: "Copy text to the system clipboard.",
			Safety:      tool.Green,
			Params: []tool.Param{
				{Name: "text", Type: tool.TypeString, Description: "Text to copy."},
			},
			Func: tool.Typed(func(ctx context.Context, req WriteRequest) (string, error) {
				if err := t.Write(ctx, req.Text); err != nil {
					return "", err
				}
				return fmt.Sprintf("[OK] Copied %d characters to clipboard.", utf8.RuneCountInString(req.Text)), nil
			}),
		},
	}
}
