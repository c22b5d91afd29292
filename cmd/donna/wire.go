package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Cyclone1070/donna/internal/agent"
	"github.com/Cyclone1070/donna/internal/config"
	"github.com/Cyclone1070/donna/internal/fingerprint"
	"github.com/Cyclone1070/donna/internal/memory"
	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/provider/gemini"
	"github.com/Cyclone1070/donna/internal/provider/groq"
	"github.com/Cyclone1070/donna/internal/provider/ollama"
	"github.com/Cyclone1070/donna/internal/safety"
	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/Cyclone1070/donna/internal/tool/catalog"
	"github.com/Cyclone1070/donna/internal/tool/clipboard"
	"github.com/Cyclone1070/donna/internal/ui"
	"github.com/Cyclone1070/donna/internal/workflow/router"
	"github.com/Cyclone1070/donna/internal/workflow/session"
	"go.uber.org/zap"
)

const feedbackDirName = "feedback"

// backend is a provider that can name its model.
type backend interface {
	provider.Provider
	Model() string
}

// newBackend builds the provider selected by cfg.Backend.
func newBackend(ctx context.Context, cfg *config.Config) (backend, error) {
	switch cfg.Backend {
	case config.BackendGroq:
		return groq.NewFromKey(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.Groq.Model, cfg.Groq.Temperature), nil
	case config.BackendGemini:
		client, err := gemini.NewRealGeminiClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return gemini.New(client, cfg.Gemini.Model), nil
	default:
		timeout := time.Duration(cfg.Ollama.Timeout) * time.Second
		return ollama.NewFromHost(cfg.Ollama.Host, cfg.Ollama.Model, cfg.Ollama.Temperature, timeout)
	}
}

func newFeedbackStore(cfg *config.Config) *memory.Store {
	return memory.NewStore(filepath.Join(cfg.DataDir, feedbackDirName))
}

// sessionOptions adjust a session for one command invocation.
type sessionOptions struct {
	Review bool
	// Clipboard overrides the system clipboard, mainly for tests.
	Clipboard clipboard.Clipboard
}

// stack is everything a command needs to handle requests.
type stack struct {
	Session     *session.Session
	Interceptor *safety.Interceptor
	Tools       *tool.Registry
	Model       string
}

// buildStack wires the tool registry, safety gate, specialists, router
// and session around one backend and user interface.
func buildStack(ctx context.Context, cfg *config.Config, llm backend, view ui.UserInterface, opts sessionOptions, logger *zap.Logger) (*stack, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg, err := catalog.New(cfg.Tools, catalog.Options{Clipboard: opts.Clipboard})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tools: %w", err)
	}

	gate := safety.NewInterceptor(reg, view, safety.Config{
		RedKeywords:      cfg.Safety.RedKeywords,
		AutoApproveGreen: cfg.Safety.AutoApproveGreen,
		MaxRed:           cfg.Safety.MaxRedPerSession,
	}, logger.Named("safety"))

	env := fingerprint.Probe(ctx)
	team, err := agent.Build(agent.Deps{
		Provider:    llm,
		Tools:       reg,
		Gate:        gate,
		Feedback:    newFeedbackStore(cfg),
		Events:      view.Events(),
		Logger:      logger.Named("agent"),
		MaxSteps:    cfg.Agent.MaxSteps,
		Environment: env.Section(),
	})
	if err != nil {
		return nil, err
	}

	r := router.New(llm, router.Config{
		Specialists:  agent.Names(),
		Default:      cfg.Agent.DefaultRoute,
		KeywordRoute: agent.SysAdmin,
		Keywords:     router.DefaultKeywords,
	}, logger.Named("router"))

	sess := session.New(r, team.Specialists, team.Critic, session.Config{
		Default:       cfg.Agent.DefaultRoute,
		ContextWindow: cfg.Agent.ContextWindow,
		ContextChars:  cfg.Agent.ContextChars,
		Review:        cfg.Agent.Critic || opts.Review,
	}, view.Events(), logger.Named("session"))

	return &stack{Session: sess, Interceptor: gate, Tools: reg, Model: llm.Model()}, nil
}
