package safety

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/tool"
	"go.uber.org/zap"
)

// Config tunes the interceptor for one session.
type Config struct {
	RedKeywords      []string
	AutoApproveGreen bool
	MaxRed           int
}

// Interceptor is the only path through which tools are executed. It
// classifies each call, runs green calls directly and asks the operator
// about red ones, up to MaxRed approvals per session.
type Interceptor struct {
	registry toolRegistry
	operator operator
	logger   *zap.Logger

	redPattern       *regexp.Regexp
	autoApproveGreen bool
	maxRed           int
	redCount         int
}

// NewInterceptor creates an Interceptor with a fresh red counter.
func NewInterceptor(registry toolRegistry, op operator, cfg Config, logger *zap.Logger) *Interceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interceptor{
		registry:         registry,
		operator:         op,
		logger:           logger,
		redPattern:       keywordPattern(cfg.RedKeywords),
		autoApproveGreen: cfg.AutoApproveGreen,
		maxRed:           cfg.MaxRed,
	}
}

// keywordPattern matches a word keyword as a standalone token, delimited by
// whitespace or a shell separator. Symbol keywords such as ">" match anywhere.
func keywordPattern(keywords []string) *regexp.Regexp {
	var words, symbols []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		quoted := regexp.QuoteMeta(strings.ToLower(kw))
		if isSymbol(kw) {
			symbols = append(symbols, quoted)
		} else {
			words = append(words, quoted)
		}
	}
	var alts []string
	if len(words) > 0 {
		alts = append(alts, `(?:^|[\s;&|(`+"`"+`])(?:`+strings.Join(words, "|")+`)(?:[\s;&|)`+"`"+`]|$)`)
	}
	if len(symbols) > 0 {
		alts = append(alts, `(?:`+strings.Join(symbols, "|")+`)`)
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(alts, "|"))
}

func isSymbol(kw string) bool {
	for _, r := range kw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return false
		}
	}
	return true
}

// RedCount is the number of red actions approved so far.
func (i *Interceptor) RedCount() int { return i.redCount }

// Tripped reports whether the circuit breaker refuses further red actions.
func (i *Interceptor) Tripped() bool { return i.redCount >= i.maxRed }

// Classify returns the safety of one invocation. The dynamic classifier, or
// the static label when there is none, gives the base level; a green result
// is promoted to red when any argument contains a red keyword.
func (i *Interceptor) Classify(entry *tool.Entry, args map[string]any) tool.Safety {
	base := entry.Safety
	if entry.Classifier != nil {
		base = entry.Classifier(args)
	}
	if base == tool.Red {
		return tool.Red
	}
	if i.redPattern != nil && i.redPattern.MatchString(flattenArgs(args)) {
		return tool.Red
	}
	return tool.Green
}

// Execute gates and runs one tool call. It never returns an error: every
// failure becomes a Result the model can read.
func (i *Interceptor) Execute(ctx context.Context, call provider.ToolCall) Result {
	entry, ok := i.registry.Lookup(call.Name)
	if !ok {
		return Result{Kind: KindError, Content: fmt.Sprintf("[ERROR] Unknown tool: %s", call.Name)}
	}

	safety := i.Classify(entry, call.Arguments)
	i.logger.Debug("classified tool call", zap.String("tool", call.Name), zap.String("safety", string(safety)))

	if safety == tool.Green && i.autoApproveGreen {
		return i.run(ctx, entry, call)
	}

	if i.Tripped() {
		i.logger.Warn("circuit breaker refused red action", zap.String("tool", call.Name), zap.Int("max_red", i.maxRed))
		return Result{
			Kind: KindDenied,
			Content: fmt.Sprintf("[DENIED] Circuit breaker: already approved %d red actions this session. Refusing '%s'.",
				i.maxRed, call.Name),
		}
	}

	answer := i.confirm(ctx, call)
	if !Affirmative(answer) {
		i.logger.Info("red action denied", zap.String("tool", call.Name))
		return Result{Kind: KindDenied, Content: fmt.Sprintf("[DENIED] User refused to allow '%s'.", call.Name)}
	}

	i.redCount++
	i.logger.Info("red action approved", zap.String("tool", call.Name), zap.Int("red_count", i.redCount))
	return i.run(ctx, entry, call)
}

func (i *Interceptor) confirm(ctx context.Context, call provider.ToolCall) string {
	if i.operator == nil {
		return ""
	}
	answer, err := i.operator.ReadPermission(ctx, ConfirmPrompt(call))
	if err != nil {
		i.logger.Info("confirmation failed, treating as denial", zap.String("tool", call.Name), zap.Error(err))
		return ""
	}
	return answer
}

// Affirmative reports whether a confirmation answer approves the action.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// ConfirmPrompt renders the question shown to the operator.
func ConfirmPrompt(call provider.ToolCall) string {
	return fmt.Sprintf("Agent wants to run %s\nAllow? [y/N]", FormatCall(call))
}

// FormatCall renders a call as name(key="value", ...) with sorted keys.
func FormatCall(call provider.ToolCall) string {
	keys := sortedKeys(call.Arguments)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := call.Arguments[k]
		if s, ok := v.(string); ok {
			parts = append(parts, fmt.Sprintf("%s=%q", k, s))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return fmt.Sprintf("%s(%s)", call.Name, strings.Join(parts, ", "))
}

func (i *Interceptor) run(ctx context.Context, entry *tool.Entry, call provider.ToolCall) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("tool panicked", zap.String("tool", call.Name), zap.Any("panic", r))
			res = Result{Kind: KindError, Content: fmt.Sprintf("[ERROR] Tool '%s' failed: Panic: %v", call.Name, r)}
		}
	}()

	out, err := entry.Call(ctx, call.Arguments)
	if err != nil {
		var argErr *tool.ArgumentError
		if errors.As(err, &argErr) {
			return Result{Kind: KindError, Content: fmt.Sprintf("[ERROR] Bad arguments for '%s': %v", call.Name, argErr.Err)}
		}
		i.logger.Debug("tool failed", zap.String("tool", call.Name), zap.Error(err))
		return Result{Kind: KindError, Content: fmt.Sprintf("[ERROR] Tool '%s' failed: %s: %v", call.Name, categoryOf(err), err)}
	}
	return Result{Kind: KindOK, Content: out}
}

// categoryOf names the failure class of a tool error.
func categoryOf(err error) string {
	var timeout interface{ Timeout() bool }
	if (errors.As(err, &timeout) && timeout.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}
	var notFound interface{ NotFound() bool }
	if (errors.As(err, &notFound) && notFound.NotFound()) || errors.Is(err, fs.ErrNotExist) {
		return "NotFound"
	}
	var perm interface{ PermissionDenied() bool }
	if (errors.As(err, &perm) && perm.PermissionDenied()) || errors.Is(err, fs.ErrPermission) {
		return "PermissionDenied"
	}
	if errors.Is(err, context.Canceled) {
		return "Canceled"
	}

	name := fmt.Sprintf("%T", err)
	name = strings.TrimPrefix(name, "*")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	switch name {
	case "errorString", "wrapError", "wrapErrors", "joinError":
		return "Error"
	}
	return name
}

// flattenArgs joins argument values with spaces in key order.
func flattenArgs(args map[string]any) string {
	keys := sortedKeys(args)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, stringify(args[k]))
	}
	return strings.Join(parts, " ")
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(val, " ")
	case map[string]any:
		return flattenArgs(val)
	default:
		return fmt.Sprint(val)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
