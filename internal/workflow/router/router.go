// Package router picks the specialist that handles a request: an explicit
// @tag first, then an administrative keyword heuristic, then a one-shot
// model classification. Anything ambiguous goes to the default specialist.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Cyclone1070/donna/internal/provider"
	"github.com/Cyclone1070/donna/internal/tool"
	"go.uber.org/zap"
)

// DefaultPrompt asks the model for a bare JSON routing decision.
const DefaultPrompt = `Classify the user's intent. Respond with ONLY a JSON object: {"route": "coder"} or {"route": "sysadmin"}.`

// DefaultKeywords route to the administrative specialist without a model call.
var DefaultKeywords = []string{
	"install", "process", "kill", "launch", "open", "sys", "admin", "sudo",
	"apt", "brew", "choco", "service", "daemon", "port", "network", "dns", "ssh",
}

var jsonObject = regexp.MustCompile(`\{[^}]+\}`)

// llmProvider communicates with an LLM.
type llmProvider interface {
	Chat(ctx context.Context, messages []provider.Message, tools []tool.Declaration) (*provider.Response, error)
}

// Config lists the routable specialists.
type Config struct {
	Specialists []string
	// Default handles anything the other rules cannot place.
	Default string
	// KeywordRoute receives requests matching Keywords.
	KeywordRoute string
	Keywords     []string
	Prompt       string
}

// Router maps raw user text to a specialist.
type Router struct {
	provider     llmProvider
	known        map[string]bool
	defaultRoute string
	keywordRoute string
	tagPattern   *regexp.Regexp
	keywords     *regexp.Regexp
	prompt       string
	logger       *zap.Logger
}

// New creates a Router. Config.Default must be one of Config.Specialists.
func New(p llmProvider, cfg Config, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		provider:     p,
		known:        make(map[string]bool, len(cfg.Specialists)),
		defaultRoute: strings.ToLower(cfg.Default),
		keywordRoute: strings.ToLower(cfg.KeywordRoute),
		prompt:       cfg.Prompt,
		logger:       logger,
	}
	if r.prompt == "" {
		r.prompt = DefaultPrompt
	}

	names := make([]string, 0, len(cfg.Specialists))
	for _, name := range cfg.Specialists {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || r.known[name] {
			continue
		}
		r.known[name] = true
		names = append(names, regexp.QuoteMeta(name))
	}
	if len(names) > 0 {
		r.tagPattern = regexp.MustCompile(`(?i)@(` + strings.Join(names, "|") + `)\b`)
	}

	if r.keywordRoute != "" && len(cfg.Keywords) > 0 {
		words := make([]string, len(cfg.Keywords))
		for i, kw := range cfg.Keywords {
			words[i] = regexp.QuoteMeta(kw)
		}
		r.keywords = regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
	}
	return r
}

// Route returns the specialist for text and the text with its tag removed.
func (r *Router) Route(ctx context.Context, text string) (string, string) {
	if name, cleaned, ok := r.byTag(text); ok {
		r.logger.Debug("routed by tag", zap.String("agent", name))
		return name, cleaned
	}

	if r.keywords != nil && r.keywords.MatchString(text) {
		r.logger.Debug("routed by keyword", zap.String("agent", r.keywordRoute))
		return r.keywordRoute, text
	}

	name, err := r.classify(ctx, text)
	if err != nil {
		r.logger.Debug("classification failed, using default", zap.String("agent", r.defaultRoute), zap.Error(err))
		return r.defaultRoute, text
	}
	r.logger.Debug("routed by model", zap.String("agent", name))
	return name, text
}

// byTag finds the earliest @specialist tag and strips that one occurrence.
func (r *Router) byTag(text string) (string, string, bool) {
	if r.tagPattern == nil {
		return "", "", false
	}
	loc := r.tagPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", false
	}
	name := strings.ToLower(text[loc[2]:loc[3]])
	before := strings.TrimRight(text[:loc[0]], " \t")
	after := strings.TrimLeft(text[loc[1]:], " \t")
	cleaned := strings.TrimSpace(before + " " + after)
	if cleaned == "" {
		cleaned = text
	}
	return name, cleaned, true
}

// classify asks the model and accepts only a known specialist.
func (r *Router) classify(ctx context.Context, text string) (string, error) {
	if r.provider == nil {
		return "", fmt.Errorf("no provider configured")
	}
	resp, err := r.provider.Chat(ctx, []provider.Message{
		{Role: provider.RoleSystem, Content: r.prompt},
		{Role: provider.RoleUser, Content: text},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("provider.Chat: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("empty response")
	}

	route, err := parseRoute(strings.TrimSpace(resp.Content))
	if err != nil {
		return "", err
	}
	if !r.known[route] {
		return "", fmt.Errorf("unknown route %q", route)
	}
	return route, nil
}

// parseRoute reads {"route": "..."} from a reply, tolerating prose around it.
func parseRoute(text string) (string, error) {
	var decision struct {
		Route string `json:"route"`
	}
	if err := json.Unmarshal([]byte(text), &decision); err != nil {
		match := jsonObject.FindString(text)
		if match == "" {
			return "", fmt.Errorf("no JSON object in reply: %w", err)
		}
		if err := json.Unmarshal([]byte(match), &decision); err != nil {
			return "", fmt.Errorf("invalid JSON object in reply: %w", err)
		}
	}
	return strings.ToLower(strings.TrimSpace(decision.Route)), nil
}
