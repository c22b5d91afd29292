package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Cyclone1070/donna/internal/tool"
	"github.com/Cyclone1070/donna/internal/tool/helper/content"
	"github.com/Cyclone1070/donna/internal/tool/service/executor"
)

// ShellTool executes commands through the platform shell.
type ShellTool struct {
	commandExecutor commandExecutor
	pathResolver    pathResolver
	timeout         time.Duration
	maxOutputChars  int
}

// NewShellTool creates a new ShellTool with injected dependencies.
func NewShellTool(commandExecutor commandExecutor, pathResolver pathResolver, timeout time.Duration, maxOutputChars int) *ShellTool {
	if commandExecutor == nil {
		panic("commandExecutor is required")
	}
	if pathResolver == nil {
		panic("pathResolver is required")
	}
	return &ShellTool{
		commandExecutor: commandExecutor,
		pathResolver:    pathResolver,
		timeout:         timeout,
		maxOutputChars:  maxOutputChars,
	}
}

// Run executes the command. A non-zero exit is not an error; it is
// reported in the response. Timeouts and cancellation are errors.
func (t *ShellTool) Run(ctx context.Context, req *ShellRequest) (*ShellResponse, error) {
	dir, err := t.pathResolver.Abs(req.Cwd)
	if err != nil {
		return nil, err
	}

	result, execErr := t.commandExecutor.RunWithTimeout(ctx, executor.ShellCommand(req.Command), dir, os.Environ(), t.timeout)
	if execErr != nil {
		var cmdErr *executor.CommandError
		switch {
		case errors.Is(execErr, executor.ErrTimeout):
			return nil, fmt.Errorf("command timed out after %s: %w", t.timeout, execErr)
		case errors.Is(execErr, context.Canceled), errors.Is(execErr, context.DeadlineExceeded):
			return nil, execErr
		case errors.As(execErr, &cmdErr):
			return nil, execErr
		}
	}
	if result == nil {
		result = &executor.Result{ExitCode: -1}
	}

	return &ShellResponse{
		Stdout:    result.Stdout,
		Stderr:    result.Stderr,
		ExitCode:  result.ExitCode,
		Truncated: result.Truncated,
	}, nil
}

// Entry registers the tool as execute_shell with a per-call classifier.
func (t *ShellTool) Entry() tool.Entry {
	return tool.Entry{
		Name:        "execute_shell",
		Description: "Execute a shell command and return its exit code and output. Uses PowerShell on Windows and sh elsewhere.",
		Safety:      tool.Red,
		Classifier:  Classify,
		Params: []tool.Param{
			{Name: "command", Type: tool.TypeString, Description: "The command line to run."},
			{Name: "cwd", Type: tool.TypeString, Description: "Working directory for the command.", Default: "."},
		},
		Func: tool.Typed(func(ctx context.Context, req ShellRequest) (string, error) {
			resp, err := t.Run(ctx, &req)
			if err != nil {
				return "", err
			}
			return t.format(resp), nil
		}),
	}
}

func (t *ShellTool) format(resp *ShellResponse) string {
	var parts []string
	if resp.Stdout != "" {
		parts = append(parts, resp.Stdout)
	}
	if resp.Stderr != "" {
		parts = append(parts, "[STDERR]\n"+resp.Stderr)
	}
	output := "(no output)"
	if len(parts) > 0 {
		output = strings.Join(parts, "\n")
	}
	output = content.Truncate(output, t.maxOutputChars)
	return fmt.Sprintf("[EXIT CODE: %d]\n%s", resp.ExitCode, output)
}
