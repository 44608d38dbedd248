package errors

import (
	"errors"
	"fmt"
)

// New creates a new error with the given message. The message is formatted
// according to `format` and `args`, in the same way as fmt.Sprintf.
func New(format string, args ...interface{}) error {
	if len(args) == 0 {
		return errors.New(format)
	}
	return fmt.Errorf(format, args...)
}

// withContext annotates an error with a short description of what was being
// attempted when the error occurred.
type withContext struct {
	err     error
	context string
}

// WithContext wraps `err` so that its message is prefixed by `context`. It
// returns nil if `err` is nil so that it can be used directly on return
// values.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return withContext{err: err, context: context}
}

func (err withContext) Error() string {
	return fmt.Sprintf("%s: %s", err.context, err.err)
}

func (err withContext) Unwrap() error {
	return err.err
}

// FriendlyError is an error whose message is meant to be shown to users
// verbatim, without any of the context that was added while it propagated.
type FriendlyError struct {
	msg string
}

// NewFriendlyError creates a FriendlyError with the formatted message.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.msg
}

// FriendlyMessage returns the message that should be shown to the user.
func (err FriendlyError) FriendlyMessage() string {
	return err.msg
}

// Friendly is implemented by errors that have a user facing message.
type Friendly interface {
	FriendlyMessage() string
}

// GetFriendlyMessage returns the first friendly message in the error chain.
func GetFriendlyMessage(err error) (string, bool) {
	var friendly Friendly
	if errors.As(err, &friendly) {
		return friendly.FriendlyMessage(), true
	}
	return "", false
}

// ExitCode returns the status the process should exit with after `err`.
// Errors carrying the exit status of a child process keep that status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
