package tool

import "fmt"

// ArgumentError means the call arguments do not match the tool's signature.
type ArgumentError struct {
	Tool string
	Err  error
}

func (e *ArgumentError) Error() string {
	if e.Tool == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// InvalidInput marks the error as caused by the caller's input.
func (e *ArgumentError) InvalidInput() bool { return true }
