package shell

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/Cyclone1070/donna/internal/tool/service/executor"
	pathsvc "github.com/Cyclone1070/donna/internal/tool/service/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCommandExecutor is a mock implementation of commandExecutor for testing.
type MockCommandExecutor struct {
	Result *executor.Result
	Err    error

	LastCmd     []string
	LastDir     string
	LastTimeout time.Duration
}

func (m *MockCommandExecutor) RunWithTimeout(ctx context.Context, cmd []string, dir string, env []string, timeout time.Duration) (*executor.Result, error) {
	m.LastCmd = cmd
	m.LastDir = dir
	m.LastTimeout = timeout
	return m.Result, m.Err
}

func TestIsSafeCommand(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"echo hello", true},
		{"  ECHO hello", true},
		{"systeminfo", true},
		{"hostname", true},
		{"whoami", true},
		{"time /t", true},
		{"date /T", true},
		{"dir", true},
		{"dir C:\\Users", true},
		{"type notes.txt", true},
		{"where python", true},
		{"ver", true},
		{"set PATH", true},
		{"python --version", true},
		{"python -V", true},
		{"pip list", true},
		{"pip freeze", true},
		{"node --version", true},
		{"git status", true},
		{"git log --oneline", true},
		{"get-date", true},
		{"Get-Process", true},
		{"$env:USERNAME", true},
		{"ls -la", true},
		{"ls", true},
		{"pwd", true},
		{"cat go.mod", true},
		{"uname -a", true},
		{"which go", true},
		{"env", true},
		{"date", true},

		{"rm -rf /", false},
		{"del file.txt", false},
		{"git push", false},
		{"git commit -m x", false},
		{"pip install requests", false},
		{"echo", false},
		{"directory", false},
		{"lsblk", false},
		{"category", false},
		{"python script.py", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSafeCommand(tt.command), "command %q", tt.command)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, tool.Green, Classify(map[string]any{"command": "git status"}))
	assert.Equal(t, tool.Red, Classify(map[string]any{"command": "shutdown now"}))
	assert.Equal(t, tool.Red, Classify(map[string]any{}))
	assert.Equal(t, tool.Red, Classify(map[string]any{"command": 42}))
}

func TestRun_FormatsOutput(t *testing.T) {
	mock := &MockCommandExecutor{Result: &executor.Result{Stdout: "out\n", Stderr: "warn\n", ExitCode: 2}}
	resolver := pathsvc.NewResolverWithHome("/work", "")
	entry := NewShellTool(mock, resolver, 120*time.Second, 8000).Entry()

	out, err := entry.Call(context.Background(), map[string]any{"command": "make"})

	require.NoError(t, err)
	assert.Equal(t, "[EXIT CODE: 2]\nout\n\n[STDERR]\nwarn\n", out)
	assert.Equal(t, executor.ShellCommand("make"), mock.LastCmd)
	assert.Equal(t, "/work", mock.LastDir)
	assert.Equal(t, 120*time.Second, mock.LastTimeout)
}

func TestRun_NoOutput(t *testing.T) {
	mock := &MockCommandExecutor{Result: &executor.Result{}}
	entry := NewShellTool(mock, pathsvc.NewResolverWithHome("/work", ""), time.Second, 8000).Entry()

	out, err := entry.Call(context.Background(), map[string]any{"command": "true", "cwd": "sub"})

	require.NoError(t, err)
	assert.Equal(t, "[EXIT CODE: 0]\n(no output)", out)
	assert.Equal(t, "/work/sub", mock.LastDir)
}

func TestRun_TruncatesOutput(t *testing.T) {
	mock := &MockCommandExecutor{Result: &executor.Result{Stdout: strings.Repeat("a", 50)}}
	entry := NewShellTool(mock, pathsvc.NewResolverWithHome("/work", ""), time.Second, 10).Entry()

	out, err := entry.Call(context.Background(), map[string]any{"command": "yes"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[EXIT CODE: 0]\naaaaaaaaaa\n"))
	assert.Contains(t, out, "truncated")
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	mock := &MockCommandExecutor{
		Result: &executor.Result{Stderr: "no such file", ExitCode: 1},
		Err:    errors.New("exit status 1"),
	}
	tool := NewShellTool(mock, pathsvc.NewResolverWithHome("/work", ""), time.Second, 100)

	resp, err := tool.Run(context.Background(), &ShellRequest{Command: "cat x", Cwd: "."})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.ExitCode)
}

func TestRun_Timeout(t *testing.T) {
	mock := &MockCommandExecutor{Result: &executor.Result{ExitCode: -1}, Err: executor.ErrTimeout}
	tool := NewShellTool(mock, pathsvc.NewResolverWithHome("/work", ""), 2*time.Second, 100)

	_, err := tool.Run(context.Background(), &ShellRequest{Command: "sleep 5", Cwd: "."})

	assert.ErrorIs(t, err, executor.ErrTimeout)
	assert.Contains(t, err.Error(), "timed out after 2s")
}

func TestRun_StartFailure(t *testing.T) {
	mock := &MockCommandExecutor{Err: &executor.CommandError{Cmd: "sh", Stage: "start", Cause: errors.New("not found")}}
	tool := NewShellTool(mock, pathsvc.NewResolverWithHome("/work", ""), time.Second, 100)

	_, err := tool.Run(context.Background(), &ShellRequest{Command: "x", Cwd: "."})

	var cmdErr *executor.CommandError
	assert.ErrorAs(t, err, &cmdErr)
}

func TestRun_EmptyCommand(t *testing.T) {
	entry := NewShellTool(&MockCommandExecutor{}, pathsvc.NewResolverWithHome("/work", ""), time.Second, 100).Entry()

	_, err := entry.Call(context.Background(), map[string]any{"command": "  "})

	assert.ErrorIs(t, err, ErrCommandRequired)
}

func TestRun_RealShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	dir := t.TempDir()
	entry := NewShellTool(executor.NewOSCommandExecutor(4096), pathsvc.NewResolverWithHome(dir, ""), 5*time.Second, 8000).Entry()

	out, err := entry.Call(context.Background(), map[string]any{"command": "echo hi && echo err >&2 && exit 4"})

	require.NoError(t, err)
	assert.Equal(t, "[EXIT CODE: 4]\nhi\n\n[STDERR]\nerr\n", out)
}
