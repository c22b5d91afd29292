package path

import (
	"errors"
	"fmt"
)

// BaseDirError is returned when the base directory cannot be determined.
type BaseDirError struct {
	Dir   string
	Cause error
}

func (e *BaseDirError) Error() string {
	return fmt.Sprintf("invalid base directory %q: %v", e.Dir, e.Cause)
}
func (e *BaseDirError) Unwrap() error { return e.Cause }

var (
	ErrEmptyPath = errors.New("path is empty")
	ErrNoHomeDir = errors.New("home directory is unknown")
)
