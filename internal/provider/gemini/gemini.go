// Package gemini implements the Google Gemini cloud backend.
package gemini

import (
	"context"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/tool"
)

// GeminiProvider implements provider.Provider for Google Gemini.
type GeminiProvider struct {
	client    GeminiClient
	modelName string
}

// New creates a new GeminiProvider with the specified client and model.
func New(client GeminiClient, modelName string) *GeminiProvider {
	return &GeminiProvider{
		client:    client,
		modelName: modelName,
	}
}

// Model returns the model name.
func (p *GeminiProvider) Model() string { return p.modelName }

// Chat sends the conversation to Gemini and returns the reply.
func (p *GeminiProvider) Chat(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error) {
	system, contents := toGeminiContents(messages)
	config := newGeminiConfig(system)
	if len(tools) > 0 {
		config.Tools = toGeminiTools(tools)
	}

	resp, err := p.client.GenerateContent(ctx, p.modelName, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}
	return fromGeminiResponse(resp)
}
