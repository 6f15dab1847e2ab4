// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the pacekit library.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrAlreadyRunning  = fmt.Errorf("worker already running")
	ErrAlreadyExists   = fmt.Errorf("resource already exists")
	ErrNotFound        = fmt.Errorf("resource not found")
	ErrNotSupported    = fmt.Errorf("operation not supported")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeAlreadyRunning
	ErrCodeAlreadyExists
	ErrCodeNotFound
	ErrCodeNotSupported
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap maps the structured code back to the matching sentinel error so
// callers can test with errors.Is.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeAlreadyRunning:
		return ErrAlreadyRunning
	case ErrCodeAlreadyExists:
		return ErrAlreadyExists
	case ErrCodeNotFound:
		return ErrNotFound
	case ErrCodeNotSupported:
		return ErrNotSupported
	default:
		return nil
	}
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
