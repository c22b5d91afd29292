// Package ollama talks to a local Ollama server through its /api/chat
// endpoint, without streaming.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/ollama/ollama/api"
)

// ChatClient is the part of the Ollama SDK client used here.
type ChatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// Provider implements provider.Provider for Ollama.
type Provider struct {
	client      ChatClient
	model       string
	temperature float64
}

// New creates a Provider with the given client.
func New(client ChatClient, model string, temperature float64) *Provider {
	return &Provider{client: client, model: model, temperature: temperature}
}

// NewFromHost creates a Provider talking to the server at host.
func NewFromHost(host, model string, temperature float64, timeout time.Duration) (*Provider, error) {
	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	client := api.NewClient(parsed, &http.Client{Timeout: timeout})
	return New(client, model, temperature), nil
}

// Model returns the model name.
func (p *Provider) Model() string { return p.model }

// Chat implements provider.Provider.
func (p *Provider) Chat(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	msgs, err := toOllamaMessages(messages)
	if err != nil {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "message conversion failed", Underlying: err}
	}

	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: msgs,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": p.temperature,
		},
	}
	if len(tools) > 0 {
		req.Tools, err = toOllamaTools(tools)
		if err != nil {
			return nil, &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "tool conversion failed", Underlying: err}
		}
	}

	var resp api.ChatResponse
	err = p.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return nil, mapOllamaError(err)
	}

	calls, err := fromOllamaToolCalls(resp.Message.ToolCalls)
	if err != nil {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "malformed tool call", Underlying: err}
	}

	return &provider.Response{
		Content:   resp.Message.Content,
		ToolCalls: calls,
		Raw:       resp,
	}, nil
}

func toOllamaMessages(messages []provider.Message) ([]api.Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("message list cannot be empty")
	}
	out := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		msg := api.Message{
			Role:    string(m.Role),
			Content: m.Content,
		}
		if m.Role == provider.RoleTool {
			msg.ToolCallID = m.ToolCallID
		}
		for _, tc := range m.ToolCalls {
			args, err := toOllamaArguments(tc.Arguments)
			if err != nil {
				return nil, fmt.Errorf("tool call %s: %w", tc.Name, err)
			}
			msg.ToolCalls = append(msg.ToolCalls, api.ToolCall{
				ID: tc.ID,
				Function: api.ToolCallFunction{
					Name:      tc.Name,
					Arguments: args,
				},
			})
		}
		out = append(out, msg)
	}
	return out, nil
}

// toOllamaArguments goes through JSON so the SDK's own decoding builds
// its argument representation.
func toOllamaArguments(args map[string]any) (api.ToolCallFunctionArguments, error) {
	var out api.ToolCallFunctionArguments
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// openAITool is the function-tool JSON shape Ollama accepts.
type openAITool struct {
	Type     string           `json:"type"`
	Function tool.Declaration `json:"function"`
}

func toOllamaTools(decls []tool.Declaration) (api.Tools, error) {
	out := make(api.Tools, 0, len(decls))
	for _, d := range decls {
		data, err := json.Marshal(openAITool{Type: "function", Function: d})
		if err != nil {
			return nil, err
		}
		var t api.Tool
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("tool %s: %w", d.Name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func fromOllamaToolCalls(calls []api.ToolCall) ([]provider.ToolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]provider.ToolCall, 0, len(calls))
	for _, c := range calls {
		data, err := json.Marshal(c.Function.Arguments)
		if err != nil {
			return nil, err
		}
		args := map[string]any{}
		if err := json.Unmarshal(data, &args); err != nil {
			return nil, fmt.Errorf("arguments of %s: %w", c.Function.Name, err)
		}
		id := c.ID
		if id == "" {
			id = provider.NewToolCallID()
		}
		out = append(out, provider.ToolCall{ID: id, Name: c.Function.Name, Arguments: args})
	}
	return out, nil
}

// mapOllamaError converts Ollama client errors to provider errors.
func mapOllamaError(err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout"):
		return &provider.ProviderError{Code: provider.ErrorCodeTimeout, Message: "request timeout", Underlying: err, Retryable: true}
	case errors.Is(err, context.Canceled):
		return &provider.ProviderError{Code: provider.ErrorCodeNetwork, Message: "request canceled", Underlying: err}
	case strings.Contains(msg, "connection refused"):
		return &provider.ProviderError{Code: provider.ErrorCodeUnavailable, Message: "Ollama server not reachable (is `ollama serve` running?)", Underlying: err, Retryable: true}
	case strings.Contains(msg, "model") && strings.Contains(msg, "not found"):
		return &provider.ProviderError{Code: provider.ErrorCodeInvalidModel, Message: "model not found (try `ollama pull`)", Underlying: err}
	case strings.Contains(msg, "does not support tools"):
		return &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "model does not support tool calling", Underlying: err}
	default:
		return &provider.ProviderError{Code: provider.ErrorCodeUnknown, Message: "Ollama API error", Underlying: err}
	}
}
