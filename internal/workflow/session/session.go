package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/workflow"
	"go.uber.org/zap"
)

const (
	defaultContextWindow = 3
	defaultContextChars  = 500
)

// AgentRunner is one specialist's control loop.
type AgentRunner interface {
	Run(ctx context.Context, history []provider.Message, userMessage string) (string, error)
}

// intentRouter picks a specialist for raw input.
type intentRouter interface {
	Route(ctx context.Context, text string) (agent string, cleaned string)
}

// Entry is one request/response pair in the shared log.
type Entry struct {
	Agent    string
	Request  string
	Response string
}

// Config tunes the session.
type Config struct {
	// Default receives requests routed to an unknown specialist.
	Default string
	// ContextWindow is how many recent shared-log entries prefix a request.
	ContextWindow int
	// ContextChars truncates each logged response in that prefix.
	ContextChars int
	// Review runs the critic over every answer.
	Review bool
}

// Session owns the per-specialist histories and the shared log, and is the
// single entry point for handling user input.
type Session struct {
	router  intentRouter
	agents  map[string]AgentRunner
	critic  AgentRunner
	cfg     Config
	events  chan<- workflow.Event
	logger  *zap.Logger
	history map[string][]provider.Message
	log     []Entry
}

// New creates a Session. critic may be nil, which disables review.
func New(router intentRouter, agents map[string]AgentRunner, critic AgentRunner, cfg Config, events chan<- workflow.Event, logger *zap.Logger) *Session {
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = defaultContextWindow
	}
	if cfg.ContextChars <= 0 {
		cfg.ContextChars = defaultContextChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		router:  router,
		agents:  agents,
		critic:  critic,
		cfg:     cfg,
		events:  events,
		logger:  logger,
		history: make(map[string][]provider.Message),
	}
}

// SetReview turns the critic pass on or off.
func (s *Session) SetReview(on bool) { s.cfg.Review = on }

// Handle routes input to a specialist and returns its answer.
func (s *Session) Handle(ctx context.Context, input string) (string, error) {
	agent, cleaned := s.router.Route(ctx, input)
	return s.dispatch(ctx, agent, cleaned)
}

// HandleWith skips routing and sends input to the named specialist.
func (s *Session) HandleWith(ctx context.Context, agent, input string) (string, error) {
	return s.dispatch(ctx, strings.ToLower(agent), input)
}

func (s *Session) dispatch(ctx context.Context, name, request string) (string, error) {
	defer workflow.Emit(s.events, workflow.DoneEvent{})

	runner, ok := s.agents[name]
	if !ok {
		s.logger.Debug("unknown specialist, using default", zap.String("agent", name), zap.String("default", s.cfg.Default))
		name = s.cfg.Default
		runner, ok = s.agents[name]
		if !ok {
			return "", fmt.Errorf("no specialist registered for %q", name)
		}
	}
	workflow.Emit(s.events, workflow.RoutedEvent{Agent: name})

	response, err := runner.Run(ctx, s.history[name], s.augment(request))
	if err != nil {
		return "", err
	}

	final := response
	if s.cfg.Review && s.critic != nil && response != "" {
		reviewed, err := s.critic.Run(ctx, nil, ReviewPrompt(request, response))
		if err != nil {
			return "", fmt.Errorf("review: %w", err)
		}
		final = reviewed
	}

	s.history[name] = append(s.history[name],
		provider.Message{Role: provider.RoleUser, Content: request},
		provider.Message{Role: provider.RoleAssistant, Content: response},
	)
	s.log = append(s.log, Entry{Agent: name, Request: request, Response: response})

	workflow.Emit(s.events, workflow.TextEvent{Agent: name, Text: final})
	return final, nil
}

// augment prefixes the request with the most recent shared-log entries.
func (s *Session) augment(request string) string {
	if len(s.log) == 0 {
		return request
	}
	recent := s.log
	if len(recent) > s.cfg.ContextWindow {
		recent = recent[len(recent)-s.cfg.ContextWindow:]
	}
	blocks := make([]string, 0, len(recent))
	for _, e := range recent {
		blocks = append(blocks, fmt.Sprintf("[@%s] User asked: %s\n[@%s] Responded: %s",
			e.Agent, e.Request, e.Agent, truncate(e.Response, s.cfg.ContextChars)))
	}
	return fmt.Sprintf("[Previous conversation context]\n%s\n\n[Current request]\n%s",
		strings.Join(blocks, "\n\n"), request)
}

// ReviewPrompt asks the critic to approve or correct a draft answer.
func ReviewPrompt(request, draft string) string {
	return fmt.Sprintf("The user asked: %q\n\n"+
		"A specialist agent produced this response:\n\n---\n%s\n---\n\n"+
		"Review it. If it's good, return it unchanged. If it needs corrections, return the corrected version.",
		request, draft)
}

// History returns a copy of a specialist's accumulated conversation.
func (s *Session) History(agent string) []provider.Message {
	return append([]provider.Message(nil), s.history[agent]...)
}

// Log returns a copy of the shared log.
func (s *Session) Log() []Entry {
	return append([]Entry(nil), s.log...)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
