package shell

import (
	"errors"
	"strings"
)

var ErrCommandRequired = errors.New("command is required")

// ShellRequest is the argument set of execute_shell.
type ShellRequest struct {
	Command string `json:"command"`
	Cwd     string `json:"cwd"`
}

func (r *ShellRequest) Validate() error {
	if strings.TrimSpace(r.Command) == "" {
		return ErrCommandRequired
	}
	if strings.TrimSpace(r.Cwd) == "" {
		r.Cwd = "."
	}
	return nil
}

// ShellResponse is the outcome of one command.
type ShellResponse struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}
