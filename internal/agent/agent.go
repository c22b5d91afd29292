// Package agent defines Donna's specialists and builds their control loops.
package agent

import (
	"embed"
	"fmt"
	"strings"

	"github.com/Cyclone1070/donna/internal/tool/catalog"
	"github.com/Cyclone1070/donna/internal/workflow"
	"github.com/Cyclone1070/donna/internal/workflow/loop"
	"github.com/Cyclone1070/donna/internal/workflow/session"
	"go.uber.org/zap"
)

// Specialist names.
const (
	Coder    = "coder"
	SysAdmin = "sysadmin"
	Critic   = "critic"
)

//go:embed prompts/*.md
var prompts embed.FS

// Definition describes one specialist.
type Definition struct {
	Name        string
	Description string
	// Tools is the allow-list offered to the model.
	Tools []string
}

var definitions = []Definition{
	{
		Name:        Coder,
		Description: "code, debugging, git and file changes",
		Tools: []string{
			catalog.ReadFile, catalog.WriteFile, catalog.DeleteFile,
			catalog.ListDir, catalog.FindFiles, catalog.ExecuteShell,
			catalog.ReadClipboard, catalog.WriteClipboard,
		},
	},
	{
		Name:        SysAdmin,
		Description: "packages, processes, services and OS settings",
		Tools: []string{
			catalog.ExecuteShell, catalog.LaunchApp, catalog.KillProcess,
			catalog.ReadFile, catalog.ListDir, catalog.FindFiles,
			catalog.ReadClipboard, catalog.WriteClipboard,
		},
	},
}

var critic = Definition{Name: Critic, Description: "reviews draft answers"}

// Specialists returns the routable specialists.
func Specialists() []Definition {
	return append([]Definition(nil), definitions...)
}

// Names returns the routable specialist names.
func Names() []string {
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a specialist, the critic included.
func Lookup(name string) (Definition, bool) {
	name = strings.ToLower(name)
	if name == Critic {
		return critic, true
	}
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Prompt returns the embedded system prompt of a specialist.
func Prompt(name string) (string, error) {
	data, err := prompts.ReadFile("prompts/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("no prompt for specialist %q: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Deps are shared by every specialist loop.
type Deps struct {
	Provider loopProvider
	Tools    loopCatalog
	Gate     loopGate
	Feedback feedbackReader
	Events   chan<- workflow.Event
	Logger   *zap.Logger
	MaxSteps int
	// Environment is appended to tool-using prompts, usually the system
	// fingerprint section.
	Environment string
}

// Team is the set of loops a session dispatches to.
type Team struct {
	Specialists map[string]session.AgentRunner
	Critic      session.AgentRunner
}

// Build creates a loop per specialist plus the critic.
func Build(deps Deps) (*Team, error) {
	team := &Team{Specialists: make(map[string]session.AgentRunner, len(definitions))}
	for _, d := range definitions {
		l, err := newLoop(d, deps)
		if err != nil {
			return nil, err
		}
		team.Specialists[d.Name] = l
	}
	l, err := newLoop(critic, deps)
	if err != nil {
		return nil, err
	}
	team.Critic = l
	return team, nil
}

func newLoop(d Definition, deps Deps) (*loop.Loop, error) {
	prompt, err := Prompt(d.Name)
	if err != nil {
		return nil, err
	}
	if env := strings.TrimSpace(deps.Environment); env != "" && len(d.Tools) > 0 {
		prompt += "\n\n" + env
	}
	cfg := loop.Config{
		Name:         d.Name,
		SystemPrompt: prompt,
		Tools:        d.Tools,
		MaxSteps:     deps.MaxSteps,
	}
	var feedback feedbackReader
	if d.Name != Critic {
		feedback = deps.Feedback
	}
	return loop.NewLoop(cfg, deps.Provider, deps.Tools, deps.Gate, feedback, deps.Events, deps.Logger), nil
}
