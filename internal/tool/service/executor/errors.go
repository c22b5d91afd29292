package executor

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when a command exceeds its timeout. It reports
// Timeout() == true.
var ErrTimeout error = timeoutError{errors.New("command timeout")}

type timeoutError struct{ error }

func (timeoutError) Timeout() bool { return true }

// CommandError is returned when a command cannot be started.
type CommandError struct {
	Cmd   string
	Cause error
	Stage string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to %s command %q: %v", e.Stage, e.Cmd, e.Cause)
}

func (e *CommandError) Unwrap() error { return e.Cause }
