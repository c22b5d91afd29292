package fingerprint

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Cyclone1070/donna/internal/tool/service/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRunner answers version commands from a table keyed by binary.
type MockRunner struct {
	mu      sync.Mutex
	Results map[string]*executor.Result
	Calls   []string
}

func (m *MockRunner) RunWithTimeout(ctx context.Context, cmd []string, dir string, env []string, timeout time.Duration) (*executor.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, cmd[0])
	if res, ok := m.Results[cmd[0]]; ok {
		return res, nil
	}
	return nil, errors.New("executable file not found")
}

func TestProbe(t *testing.T) {
	runner := &MockRunner{Results: map[string]*executor.Result{
		"git":  {Stdout: "git version 2.45.0\n"},
		"java": {Stderr: "\nopenjdk version \"21\"\nmore\n"},
		"go":   {Stdout: "  \n"},
	}}
	p := NewProber(runner, []ToolProbe{
		{"Git", []string{"git", "--version"}},
		{"Java", []string{"java", "-version"}},
		{"Go", []string{"go", "version"}},
		{"Rust", []string{"rustc", "--version"}},
	})
	p.getenv = func(key string) string {
		if key == "SHELL" {
			return "/bin/zsh"
		}
		return ""
	}

	fp := p.Probe(context.Background())

	assert.Equal(t, runtime.GOOS, fp.OS)
	assert.Equal(t, []Installed{
		{Name: "Git", Version: "git version 2.45.0"},
		{Name: "Java", Version: `openjdk version "21"`},
	}, fp.Installed)
	assert.Equal(t, []string{"Go", "Rust"}, fp.Missing)
	assert.Len(t, runner.Calls, 4)
	if runtime.GOOS != "windows" {
		assert.Equal(t, "/bin/zsh", fp.Shell)
	}
}

func TestSection(t *testing.T) {
	fp := &Fingerprint{
		OS: "linux", Arch: "amd64", Hostname: "box", Username: "ada",
		Home: "/home/ada", Cwd: "/home/ada/src", Shell: "/bin/bash",
		Installed: []Installed{{Name: "Git", Version: "git version 2.45.0"}},
		Missing:   []string{"Docker"},
	}

	got := fp.Section()

	require.True(t, strings.HasPrefix(got, "## System Environment (auto-detected)\n"))
	assert.Contains(t, got, "- OS: linux/amd64\n")
	assert.Contains(t, got, "- CWD: /home/ada/src\n")
	assert.Contains(t, got, "### Installed Tools\n- Git: git version 2.45.0\n")
	assert.True(t, strings.HasSuffix(got, "### NOT Installed (do not use these)\n- Docker"))
}

func TestSection_NothingInstalled(t *testing.T) {
	got := (&Fingerprint{}).Section()

	assert.Contains(t, got, "- (none detected)")
	assert.NotContains(t, got, "NOT Installed")
}
