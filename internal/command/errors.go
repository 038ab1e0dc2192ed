package command

import (
	"errors"
	"fmt"
)

// AssertionError is returned (or panicked) by a test body whose check did
// not hold. It is reported as a Failure, not an Error.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// Assertion marks the error as assertion-level for result.FromError.
func (e *AssertionError) Assertion() bool { return true }

// Category names the error for expected-error classification.
func (e *AssertionError) Category() string { return "AssertionError" }

// Fail returns an assertion failure with message.
func Fail(message string) error {
	return &AssertionError{Message: message}
}

// Failf returns a formatted assertion failure.
func Failf(format string, args ...any) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// IsAssertion reports whether err is, or wraps, an assertion failure.
func IsAssertion(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}

// PanicError wraps a value recovered from a panicking test body. When the
// value is itself an error, Unwrap exposes it so classification can look
// one level through the panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
