// Package groq implements the Groq cloud backend through its
// OpenAI-compatible chat completions API.
package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// CompletionsClient is the part of the OpenAI SDK used here.
type CompletionsClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Provider implements provider.Provider for Groq.
type Provider struct {
	client      CompletionsClient
	model       string
	temperature float64
}

// New creates a Provider with the given client.
func New(client CompletionsClient, model string, temperature float64) *Provider {
	return &Provider{client: client, model: model, temperature: temperature}
}

// NewFromKey creates a Provider for the Groq API.
func NewFromKey(apiKey, baseURL, model string, temperature float64) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := openai.NewClient(
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		option.WithBaseURL(baseURL),
	)
	return New(&client.Chat.Completions, model, temperature)
}

// Model returns the model name.
func (p *Provider) Model() string { return p.model }

// Chat implements provider.Provider.
func (p *Provider) Chat(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	msgs, err := toOpenAIMessages(messages)
	if err != nil {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "message conversion failed", Underlying: err}
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(p.model),
		Messages:    msgs,
		Temperature: openai.Float(p.temperature),
	}
	if len(tools) > 0 {
		params.Tools, err = toOpenAITools(tools)
		if err != nil {
			return nil, &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "tool conversion failed", Underlying: err}
		}
	}

	resp, err := p.client.New(ctx, params)
	if err != nil {
		return nil, mapGroqError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "no choices in response"}
	}

	msg := resp.Choices[0].Message
	out := &provider.Response{Content: msg.Content, Raw: resp}
	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if raw := strings.TrimSpace(tc.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, &provider.ProviderError{
					Code:       provider.ErrorCodeInvalidRequest,
					Message:    fmt.Sprintf("malformed arguments for %s", tc.Function.Name),
					Underlying: err,
				}
			}
		}
		id := tc.ID
		if id == "" {
			id = provider.NewToolCallID()
		}
		out.ToolCalls = append(out.ToolCalls, provider.ToolCall{ID: id, Name: tc.Function.Name, Arguments: args})
	}
	return out, nil
}

func toOpenAIMessages(messages []provider.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case provider.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case provider.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case provider.RoleTool:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		case provider.RoleAssistant:
			if len(m.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(m.Content))
				continue
			}
			calls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				args := tc.Arguments
				if args == nil {
					args = map[string]any{}
				}
				raw, err := json.Marshal(args)
				if err != nil {
					return nil, fmt.Errorf("tool call %s: %w", tc.Name, err)
				}
				calls = append(calls, openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: string(raw),
					},
				})
			}
			assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
			if m.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(m.Content)}
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant})
		default:
			return nil, fmt.Errorf("unsupported role %q", m.Role)
		}
	}
	return out, nil
}

func toOpenAITools(decls []tool.Declaration) ([]openai.ChatCompletionToolParam, error) {
	out := make([]openai.ChatCompletionToolParam, 0, len(decls))
	for _, d := range decls {
		fn := shared.FunctionDefinitionParam{
			Name:        d.Name,
			Description: openai.String(d.Description),
		}
		if d.Parameters != nil {
			data, err := json.Marshal(d.Parameters)
			if err != nil {
				return nil, err
			}
			var params map[string]any
			if err := json.Unmarshal(data, &params); err != nil {
				return nil, err
			}
			fn.Parameters = shared.FunctionParameters(params)
		}
		out = append(out, openai.ChatCompletionToolParam{Function: fn})
	}
	return out, nil
}

// mapGroqError maps API errors to provider errors.
func mapGroqError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return &provider.ProviderError{Code: provider.ErrorCodeAuth, Message: "authentication failed (check GROQ_API_KEY)", Underlying: err}
		case 404:
			return &provider.ProviderError{Code: provider.ErrorCodeInvalidModel, Message: "model not found", Underlying: err}
		case 429:
			return &provider.ProviderError{Code: provider.ErrorCodeRateLimit, Message: "rate limit exceeded", Underlying: err, Retryable: true}
		case 400:
			return &provider.ProviderError{Code: provider.ErrorCodeInvalidRequest, Message: "invalid request", Underlying: err}
		case 500, 502, 503, 504:
			return &provider.ProviderError{Code: provider.ErrorCodeUnavailable, Message: "service unavailable", Underlying: err, Retryable: true}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &provider.ProviderError{Code: provider.ErrorCodeTimeout, Message: "request timeout", Underlying: err, Retryable: true}
	}
	return &provider.ProviderError{Code: provider.ErrorCodeNetwork, Message: "network error", Underlying: err, Retryable: true}
}
