package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// DefaultGracePeriod is how long output pipes may stay open after the
// process is gone, for example when a grandchild inherited them.
const DefaultGracePeriod = 500 * time.Millisecond

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// OSCommandExecutor runs real commands with os/exec.
type OSCommandExecutor struct {
	maxOutputBytes int
	grace          time.Duration
}

// NewOSCommandExecutor creates an executor that keeps at most
// maxOutputBytes of each output stream.
func NewOSCommandExecutor(maxOutputBytes int) *OSCommandExecutor {
	if maxOutputBytes <= 0 {
		panic("maxOutputBytes must be positive")
	}
	return &OSCommandExecutor{maxOutputBytes: maxOutputBytes, grace: DefaultGracePeriod}
}

// ShellCommand wraps a command line for the platform shell.
func ShellCommand(command string) []string {
	if runtime.GOOS == "windows" {
		return []string{"powershell", "-NoProfile", "-Command", command}
	}
	return []string{"sh", "-c", command}
}

// RunWithTimeout executes a command, killing it when timeout elapses or ctx
// is cancelled. Output produced before the kill is kept. A non-zero exit is
// reported through Result.ExitCode and a non-nil error.
func (e *OSCommandExecutor) RunWithTimeout(ctx context.Context, command []string, dir string, env []string, timeout time.Duration) (*Result, error) {
	if len(command) == 0 {
		return nil, os.ErrInvalid
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.WaitDelay = e.grace

	stdout := newCollector(e.maxOutputBytes, binarySampleSize)
	stderr := newCollector(e.maxOutputBytes, binarySampleSize)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: command[0], Cause: err, Stage: "start"}
	}
	runErr := cmd.Wait()
	if errors.Is(runErr, exec.ErrWaitDelay) {
		// The process exited but a background child still held the pipes.
		runErr = nil
	}

	res := &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
		ExitCode:  exitCode(runErr),
	}
	if runErr == nil && cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case runErr == nil:
		return res, nil
	case ctx.Err() != nil:
		res.ExitCode = -1
		return res, ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.ExitCode = -1
		return res, ErrTimeout
	}
	return res, runErr
}

// Start launches a command without waiting for it and returns its PID. The
// process is reaped in the background.
func (e *OSCommandExecutor) Start(command []string, dir string) (int, error) {
	if len(command) == 0 {
		return 0, os.ErrInvalid
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		return 0, &CommandError{Cmd: command[0], Cause: err, Stage: "start"}
	}
	pid := cmd.Process.Pid
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
