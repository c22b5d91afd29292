package loop

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/safety"
	"github.com/Cyclone1070/donna/internal/tool"
	pathsvc "github.com/Cyclone1070/donna/internal/tool/service/path"
	"github.com/Cyclone1070/donna/internal/workflow"
	"go.uber.org/zap"
)

// DefaultMaxSteps bounds the model calls of one run.
const DefaultMaxSteps = 15

// ErrEmptyResponse is returned when a backend answers with neither a
// response nor an error.
var ErrEmptyResponse = errors.New("empty response")

const (
	previewLimit = 200

	denialNote = "\n[NOTE] The user denied this action. Do not retry this tool or a similar one. " +
		"Continue without it or explain what the user can do manually."

	summaryInstruction = "[SYSTEM] The action above completed successfully. " +
		"Reply with a brief confirmation of what was done. Do not call any tools."

	denialInstruction = "[SYSTEM] The user has denied your tool requests twice in a row. " +
		"Stop requesting tools. Answer in plain text: say what you intended to do and what the user can do instead."
)

// Config describes one specialist.
type Config struct {
	Name         string
	SystemPrompt string
	// Tools lists the tools the model is offered and may call. Empty means none.
	Tools    []string
	MaxSteps int
}

// Loop runs the ReAct cycle for one specialist.
type Loop struct {
	cfg      Config
	provider llmProvider
	tools    toolCatalog
	gate     toolGate
	feedback feedbackReader
	events   chan<- workflow.Event
	logger   *zap.Logger
}

// NewLoop creates a Loop. feedback, events and logger may be nil.
func NewLoop(cfg Config, provider llmProvider, tools toolCatalog, gate toolGate, feedback feedbackReader, events chan<- workflow.Event, logger *zap.Logger) *Loop {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		cfg:      cfg,
		provider: provider,
		tools:    tools,
		gate:     gate,
		feedback: feedback,
		events:   events,
		logger:   logger.With(zap.String("agent", cfg.Name)),
	}
}

// Name returns the specialist name.
func (l *Loop) Name() string { return l.cfg.Name }

// state lives for one Run call.
type state struct {
	messages           []provider.Message
	consecutiveDenials int
	completedWrites    map[string]bool
}

// Run answers userMessage given the prior history. Tool failures and
// denials are fed back to the model; only backend errors are returned.
func (l *Loop) Run(ctx context.Context, history []provider.Message, userMessage string) (string, error) {
	st := &state{completedWrites: make(map[string]bool)}
	st.messages = make([]provider.Message, 0, len(history)+2)
	st.messages = append(st.messages, provider.Message{Role: provider.RoleSystem, Content: l.SystemMessage()})
	st.messages = append(st.messages, history...)
	st.messages = append(st.messages, provider.Message{Role: provider.RoleUser, Content: userMessage})

	var decls []tool.Declaration
	if len(l.cfg.Tools) > 0 && l.tools != nil {
		decls = l.tools.Declarations(l.cfg.Tools...)
	}

	for step := 0; step < l.cfg.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		workflow.Emit(l.events, workflow.ThinkingEvent{Agent: l.cfg.Name})
		resp, err := l.chat(ctx, st.messages, decls)
		if err != nil {
			return "", err
		}

		if !resp.HasToolCalls() {
			l.logger.Debug("final answer", zap.Int("step", step))
			return resp.Content, nil
		}

		for i := range resp.ToolCalls {
			if resp.ToolCalls[i].ID == "" {
				resp.ToolCalls[i].ID = provider.NewToolCallID()
			}
		}
		st.messages = append(st.messages, resp.AssistantMessage())

		wrote, denied := l.runTools(ctx, st, resp.ToolCalls)

		if denied {
			st.consecutiveDenials++
		} else {
			st.consecutiveDenials = 0
		}

		if wrote {
			l.logger.Debug("destructive action succeeded, forcing summary", zap.Int("step", step))
			return l.finish(ctx, st, summaryInstruction)
		}
		if st.consecutiveDenials >= 2 {
			l.logger.Debug("repeated denials, forcing plain answer", zap.Int("step", step))
			return l.finish(ctx, st, denialInstruction)
		}
	}

	l.logger.Warn("step limit reached", zap.Int("max_steps", l.cfg.MaxSteps))
	return fmt.Sprintf("[Agent @%s hit the step limit (%d). This usually means the task is too complex for a single pass.]",
		l.cfg.Name, l.cfg.MaxSteps), nil
}

// SystemMessage is the static prompt plus any persisted corrections.
func (l *Loop) SystemMessage() string {
	prompt := l.cfg.SystemPrompt
	if prompt == "" {
		prompt = fmt.Sprintf("You are @%s, a helpful AI assistant.", l.cfg.Name)
	}
	if l.feedback == nil {
		return prompt
	}
	notes, err := l.feedback.Read(l.cfg.Name)
	if err != nil {
		l.logger.Warn("failed to read feedback", zap.Error(err))
		return prompt
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return prompt
	}
	return prompt + "\n\n## Past Corrections (IMPORTANT: follow these)\n\n" + notes
}

// runTools processes one step's tool calls in order. It reports whether a
// destructive call succeeded and whether any call was denied.
func (l *Loop) runTools(ctx context.Context, st *state, calls []provider.ToolCall) (wrote, denied bool) {
	for _, call := range calls {
		target := l.destructiveTarget(call)

		workflow.Emit(l.events, workflow.ToolStartEvent{
			Agent:          l.cfg.Name,
			ToolName:       call.Name,
			RequestDisplay: safety.FormatCall(call),
		})

		var content string
		var outcome workflow.ToolOutcome
		if l.withheld(call) {
			l.logger.Warn("tool not available to agent", zap.String("tool", call.Name))
			content = fmt.Sprintf("[ERROR] Tool '%s' is not available to @%s. Use only the tools you were given.", call.Name, l.cfg.Name)
			outcome = workflow.OutcomeError
		} else if target != "" && st.completedWrites[target] {
			content = fmt.Sprintf("[SKIPPED] '%s' on %s was already completed in this task. Do not repeat it.", call.Name, target)
			outcome = workflow.OutcomeSkipped
		} else {
			res := l.gate.Execute(ctx, call)
			content = res.Content
			switch res.Kind {
			case safety.KindOK:
				outcome = workflow.OutcomeOK
				if target != "" {
					st.completedWrites[target] = true
					wrote = true
				}
			case safety.KindDenied:
				outcome = workflow.OutcomeDenied
				denied = true
				content += denialNote
			default:
				outcome = workflow.OutcomeError
			}
		}

		l.logger.Debug("tool call processed", zap.String("tool", call.Name), zap.String("outcome", string(outcome)))
		workflow.Emit(l.events, workflow.ToolEndEvent{
			Agent:    l.cfg.Name,
			ToolName: call.Name,
			Outcome:  outcome,
			Preview:  Preview(content, previewLimit),
		})

		st.messages = append(st.messages, provider.Message{
			Role:       provider.RoleTool,
			Content:    content,
			ToolCallID: call.ID,
			Name:       call.Name,
		})
	}
	return wrote, denied
}

// finish appends a synthetic instruction and makes one last call with no
// tools offered.
func (l *Loop) finish(ctx context.Context, st *state, instruction string) (string, error) {
	st.messages = append(st.messages, provider.Message{Role: provider.RoleUser, Content: instruction})
	workflow.Emit(l.events, workflow.ThinkingEvent{Agent: l.cfg.Name})
	resp, err := l.chat(ctx, st.messages, nil)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (l *Loop) chat(ctx context.Context, messages []provider.Message, decls []tool.Declaration) (*provider.Response, error) {
	resp, err := l.provider.Chat(ctx, messages, decls)
	if err != nil {
		return nil, fmt.Errorf("agent %s: provider.Chat: %w", l.cfg.Name, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("agent %s: provider.Chat: %w", l.cfg.Name, ErrEmptyResponse)
	}
	return resp, nil
}

// withheld reports whether call names a registered tool this specialist
// was not given. Unregistered names go to the gate, which reports them.
func (l *Loop) withheld(call provider.ToolCall) bool {
	if l.tools == nil || slices.Contains(l.cfg.Tools, call.Name) {
		return false
	}
	_, ok := l.tools.Lookup(call.Name)
	return ok
}

// destructiveTarget returns the normalized target of a destructive call,
// or "" when the call is not destructive.
func (l *Loop) destructiveTarget(call provider.ToolCall) string {
	if l.tools == nil {
		return ""
	}
	entry, ok := l.tools.Lookup(call.Name)
	if !ok || !entry.Destructive() {
		return ""
	}
	raw, _ := call.Arguments[entry.Target].(string)
	return NormalizeTarget(raw)
}

// NormalizeTarget maps different spellings of a path to one key: "~" is
// expanded and the result made absolute and clean. Symlinks are not
// resolved.
func NormalizeTarget(path string) string {
	return pathsvc.Normalize(path)
}

// Preview truncates s to limit runes, marking the cut.
func Preview(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
