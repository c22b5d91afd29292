// Package fingerprint describes the local machine for system prompts.
package fingerprint

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"

	"github.com/Cyclone1070/donna/internal/tool/service/executor"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 5 * time.Second

// ToolProbe names a tool and the command printing its version.
type ToolProbe struct {
	Name    string
	Command []string
}

// DefaultProbes are the developer tools looked for on PATH.
var DefaultProbes = []ToolProbe{
	{"Python", []string{"python3", "--version"}},
	{"Git", []string{"git", "--version"}},
	{"Go", []string{"go", "version"}},
	{"Node", []string{"node", "--version"}},
	{"npm", []string{"npm", "--version"}},
	{"Docker", []string{"docker", "--version"}},
	{"pip", []string{"pip", "--version"}},
	{"Rust", []string{"rustc", "--version"}},
	{"Java", []string{"java", "-version"}},
}

// commandRunner runs a version command.
type commandRunner interface {
	RunWithTimeout(ctx context.Context, cmd []string, dir string, env []string, timeout time.Duration) (*executor.Result, error)
}

// Installed is a tool found on the machine.
type Installed struct {
	Name    string
	Version string
}

// Fingerprint is a snapshot of the machine.
type Fingerprint struct {
	OS        string
	Arch      string
	Hostname  string
	Username  string
	Home      string
	Cwd       string
	Shell     string
	Installed []Installed
	Missing   []string
}

// Prober collects fingerprints.
type Prober struct {
	runner commandRunner
	probes []ToolProbe
	getenv func(string) string
}

// NewProber creates a prober running the given probes. A nil probes slice
// means DefaultProbes.
func NewProber(runner commandRunner, probes []ToolProbe) *Prober {
	if probes == nil {
		probes = DefaultProbes
	}
	return &Prober{runner: runner, probes: probes, getenv: os.Getenv}
}

// Probe detects the machine with the default probes.
func Probe(ctx context.Context) *Fingerprint {
	return NewProber(executor.NewOSCommandExecutor(4096), nil).Probe(ctx)
}

// Probe runs every tool probe concurrently. Tools that fail to run are
// reported missing; Probe itself never fails.
func (p *Prober) Probe(ctx context.Context) *Fingerprint {
	fp := &Fingerprint{
		OS:    runtime.GOOS,
		Arch:  runtime.GOARCH,
		Shell: p.shell(),
	}
	fp.Hostname, _ = os.Hostname()
	fp.Home, _ = os.UserHomeDir()
	fp.Cwd, _ = os.Getwd()
	fp.Username = p.username()

	versions := make([]string, len(p.probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, probe := range p.probes {
		g.Go(func() error {
			versions[i] = p.version(gctx, probe.Command)
			return nil
		})
	}
	_ = g.Wait()

	for i, probe := range p.probes {
		if versions[i] == "" {
			fp.Missing = append(fp.Missing, probe.Name)
			continue
		}
		fp.Installed = append(fp.Installed, Installed{Name: probe.Name, Version: versions[i]})
	}
	return fp
}

// version returns the first non-empty output line, or "" when the command
// cannot run or exits non-zero.
func (p *Prober) version(ctx context.Context, command []string) string {
	res, err := p.runner.RunWithTimeout(ctx, command, "", nil, probeTimeout)
	if err != nil || res == nil {
		return ""
	}
	out := res.Stdout
	if strings.TrimSpace(out) == "" {
		out = res.Stderr
	}
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func (p *Prober) shell() string {
	if runtime.GOOS == "windows" {
		return "PowerShell"
	}
	if sh := p.getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func (p *Prober) username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := p.getenv(key); v != "" {
			return v
		}
	}
	return "unknown"
}

// Section renders the fingerprint as a system prompt section.
func (f *Fingerprint) Section() string {
	var b strings.Builder
	b.WriteString("## System Environment (auto-detected)\n")
	fmt.Fprintf(&b, "- OS: %s/%s\n", f.OS, f.Arch)
	fmt.Fprintf(&b, "- Host: %s\n", f.Hostname)
	fmt.Fprintf(&b, "- User: %s\n", f.Username)
	fmt.Fprintf(&b, "- Home: %s\n", f.Home)
	fmt.Fprintf(&b, "- CWD: %s\n", f.Cwd)
	fmt.Fprintf(&b, "- Shell: %s\n", f.Shell)
	b.WriteString("\n### Installed Tools\n")
	if len(f.Installed) == 0 {
		b.WriteString("- (none detected)\n")
	}
	for _, t := range f.Installed {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Version)
	}
	if len(f.Missing) > 0 {
		b.WriteString("\n### NOT Installed (do not use these)\n")
		for _, name := range f.Missing {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
