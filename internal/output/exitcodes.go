// Package output provides structured output and error handling for the nikki CLI.
package output

import "errors"

// Exit codes. Warnings never change the code of a successful run.
const (
	ExitSuccess     = 0
	ExitUserError   = 1 // bad flags, missing source, no matching documents
	ExitSystemError = 2 // a report could not be written
)

// ExitError carries the exit code and message the CLI reports for a failure.
type ExitError struct {
	Code    int
	Message string
	// Hint is an optional next step shown after the message.
	Hint  string
	Cause error
}

func (e *ExitError) Error() string {
	return e.Message
}

// Unwrap exposes Cause so domain sentinels still match with errors.Is.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// WithHint sets Hint and returns e.
func (e *ExitError) WithHint(hint string) *ExitError {
	e.Hint = hint
	return e
}

// NewUserError reports a problem with the invocation or its inputs.
func NewUserError(message string) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message}
}

// NewUserErrorWithCause is NewUserError wrapping cause.
func NewUserErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitUserError, Message: message, Cause: cause}
}

// NewSystemError reports a failure of the environment, such as a write error.
func NewSystemError(message string) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message}
}

// NewSystemErrorWithCause is NewSystemError wrapping cause.
func NewSystemErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{Code: ExitSystemError, Message: message, Cause: cause}
}

// GetExitCode maps err to a process exit code. Errors that carry no code,
// such as cobra flag errors, are user errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
