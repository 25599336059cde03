// Package apperr defines the error codes shared by the engine, the session
// host and the transports that surface them.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	CodeInvalidIdentity    Code = "INVALID_IDENTITY"
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
	CodeConfiguration      Code = "CONFIGURATION_ERROR"
	CodeOutOfSequence      Code = "OUT_OF_SEQUENCE_ANSWER"
	CodeInvalidAnswer      Code = "INVALID_ANSWER"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthorized       Code = "UNAUTHORIZED"
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrInvalidIdentity    = &Error{Code: CodeInvalidIdentity}
	ErrPersistenceFailure = &Error{Code: CodePersistenceFailure}
	ErrConfiguration      = &Error{Code: CodeConfiguration}
	ErrOutOfSequence      = &Error{Code: CodeOutOfSequence}
	ErrInvalidAnswer      = &Error{Code: CodeInvalidAnswer}
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized}
)

// Error is a coded application error.
type Error struct {
	Code      Code
	Message   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates an error with the given code and message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to a lower-level cause.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// Persistence wraps a storage failure. Persistence failures are retryable.
func Persistence(err error, op string) *Error {
	return &Error{
		Code:      CodePersistenceFailure,
		Message:   op,
		Retryable: true,
		Err:       err,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
