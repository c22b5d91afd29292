package directory

import (
	"errors"
	"fmt"
)

var (
	ErrNotADirectory   = errors.New("not a directory")
	ErrPatternRequired = errors.New("pattern is required")
	ErrInvalidPattern  = errors.New("invalid pattern")
)

// StatError wraps a failed stat of the requested directory.
type StatError struct {
	Path  string
	Cause error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Cause)
}
func (e *StatError) Unwrap() error { return e.Cause }

type ListDirError struct {
	Path  string
	Cause error
}

func (e *ListDirError) Error() string {
	return fmt.Sprintf("failed to list %s: %v", e.Path, e.Cause)
}
func (e *ListDirError) Unwrap() error { return e.Cause }

// NotADirectoryError is returned when a directory argument names a file.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, ErrNotADirectory)
}
func (e *NotADirectoryError) Unwrap() error      { return ErrNotADirectory }
func (e *NotADirectoryError) InvalidInput() bool { return true }
