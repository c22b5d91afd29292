// Package process holds the application launch and process kill tools.
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"syscall"

	"github.com/Cyclone1070/donna/internal/tool"
)

var (
	ErrTargetRequired = errors.New("target is required")
	ErrInvalidPID     = errors.New("pid must be positive")
	ErrSelfKill       = errors.New("refusing to terminate the assistant's own process")
)

// NoSuchProcessError is returned when no process has the given PID.
type NoSuchProcessError struct {
	PID int
}

func (e *NoSuchProcessError) Error() string {
	return fmt.Sprintf("no process found with PID %d", e.PID)
}
func (e *NoSuchProcessError) NotFound() bool { return true }

// starter launches a detached command.
type starter interface {
	Start(command []string, dir string) (int, error)
}

// terminator stops a process.
type terminator interface {
	Terminate(pid int) error
}

// -- Launch App --

type LaunchRequest struct {
	Target string `json:"target"`
}

func (r *LaunchRequest) Validate() error {
	r.Target = strings.TrimSpace(r.Target)
	if r.Target == "" {
		return ErrTargetRequired
	}
	return nil
}

// LaunchTool opens an application, file or URL with the OS default handler.
type LaunchTool struct {
	starter starter
	goos    string
}

func NewLaunchTool(s starter) *LaunchTool {
	if s == nil {
		panic("starter is required")
	}
	return &LaunchTool{starter: s, goos: runtime.GOOS}
}

// OpenCommand returns the command that opens target on goos.
func OpenCommand(goos, target string) []string {
	switch goos {
	case "windows":
		return []string{"cmd", "/C", "start", "", target}
	case "darwin":
		return []string{"open", target}
	default:
		return []string{"xdg-open", target}
	}
}

// Run starts the opener and returns its PID.
func (t *LaunchTool) Run(ctx context.Context, req *LaunchRequest) (int, error) {
	return t.starter.Start(OpenCommand(t.goos, req.Target), "")
}

func (t *LaunchTool) Entry() tool.Entry {
	return tool.Entry{
		Name:        "launch_app",
		Description: "Launch an application, or open a file or URL with its default handler.",
		Safety:      tool.Green,
		Params: []tool.Param{
			{Name: "target", Type: tool.TypeString, Description: "Application name, file path or URL."},
		},
		Func: tool.Typed(func(ctx context.Context, req LaunchRequest) (string, error) {
			pid, err := t.Run(ctx, &req)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("[OK] Launched: %s (pid %d)", req.Target, pid), nil
		}),
	}
}

// -- Kill Process --

type KillRequest struct {
	PID int `json:"pid"`
}

func (r *KillRequest) Validate() error {
	if r.PID <= 0 {
		return ErrInvalidPID
	}
	return nil
}

// OSTerminator sends SIGTERM, or kills outright on Windows.
type OSTerminator struct{}

func (OSTerminator) Terminate(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return &NoSuchProcessError{PID: pid}
	}
	if runtime.GOOS == "windows" {
		err = p.Kill()
	} else {
		err = p.Signal(syscall.SIGTERM)
	}
	if errors.Is(err, os.ErrProcessDone) {
		return &NoSuchProcessError{PID: pid}
	}
	return err
}

// KillTool terminates a process by PID.
type KillTool struct {
	terminator terminator
	self       int
}

func NewKillTool(t terminator) *KillTool {
	if t == nil {
		panic("terminator is required")
	}
	return &KillTool{terminator: t, self: os.Getpid()}
}

func (t *KillTool) Run(ctx context.Context, req *KillRequest) error {
	if req.PID == t.self {
		return ErrSelfKill
	}
	return t.terminator.Terminate(req.PID)
}

func (t *KillTool) Entry() tool.Entry {
	return tool.Entry{
		Name:        "kill_process",
		Description: "Terminate a running process by its PID. Unsaved work in that process may be lost.",
		Safety:      tool.Red,
		Params: []tool.Param{
			{Name: "pid", Type: tool.TypeInteger, Description: "Process ID to terminate."},
		},
		Func: tool.Typed(func(ctx context.Context, req KillRequest) (string, error) {
			if err := t.Run(ctx, &req); err != nil {
				return "", err
			}
			return fmt.Sprintf("[OK] Sent termination signal to PID %d.", req.PID), nil
		}),
	}
}
