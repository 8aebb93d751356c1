package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes for the failure classes a run can hit.
const (
	CodeConfiguration     = "CONFIGURATION_ERROR"
	CodeHistoryResolution = "HISTORY_RESOLUTION_ERROR"
	CodeExecution         = "EXECUTION_ERROR"
)

type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ExitError carries the process exit code a run should terminate with,
// so main stays dumb and the failing command's status reaches the CI job.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// Exit creates an ExitError with an explicit code. Codes <= 0 normalize to 1;
// success is never represented as an error.
func Exit(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// ExitWrap creates an ExitError that wraps an underlying cause.
func ExitWrap(code int, msg string, cause error) error {
	if cause == nil {
		return Exit(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// ExitCodeOf extracts an exit code from any error, defaulting to 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if stderrors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}

func normalize(code int) int {
	if code <= 0 {
		return 1
	}
	return code
}
