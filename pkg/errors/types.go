package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// ExitError represents a child process that exited with a non-zero status.
// The status is propagated as the exit status of this process.
type ExitError struct {
	Command string
	Code    int
}

func (err ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", err.Command, err.Code)
}
