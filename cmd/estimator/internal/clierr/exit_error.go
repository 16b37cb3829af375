// Package clierr carries process exit codes through command errors.
package clierr

import (
	"errors"
	"fmt"
)

// Exit codes used by the estimator CLI.
const (
	// ExitFailure reports an estimation or validation failure.
	ExitFailure = 1
	// ExitUsage reports bad arguments or an unusable configuration.
	ExitUsage = 2
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error with an explicit exit code. It unwraps to its cause.
type ExitError struct {
	code     int
	msg      string
	cause    error
	reported bool
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError around cause. A nil cause behaves like New.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

func Newf(code int, format string, args ...any) error {
	return &ExitError{code: normalize(code), msg: fmt.Sprintf(format, args...)}
}

// Usage marks err as a usage or configuration error. An error that already
// carries a code keeps it.
func Usage(err error) error {
	if err == nil {
		return nil
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return err
	}
	return &ExitError{code: ExitUsage, cause: err}
}

// Reported wraps an error the command has already written to the user, so
// main only sets the exit code.
func Reported(code int, cause error) error {
	return &ExitError{code: normalize(code), cause: cause, reported: true}
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var e *ExitError
	return errors.As(err, &e) && e.reported
}

// ExitCodeOf extracts an exit code from any error, defaulting to 1.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return ExitFailure
}

func normalize(code int) int {
	if code <= 0 {
		return ExitFailure
	}
	return code
}
