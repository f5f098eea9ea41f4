// Package errors provides structured error types for tangle.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the engine
//   - Machine-readable error codes for programmatic handling
//   - Context about the offending identifier so callers can fix their input
//
// # Error Codes
//
// The layout engine fails with one of three fatal kinds:
//   - REFERENCE_ERROR: an edge or entity references an unknown id
//   - CYCLE_ERROR: generation propagation did not converge (cyclic input)
//   - MALFORMED_PROPERTIES: a property bag lacks a required identifier field
//
// The remaining codes cover the outer surfaces (input files, HTTP bodies).
//
// # Usage
//
//	err := errors.Reference("node-42")
//	if errors.Is(err, errors.ErrCodeReference) {
//	    // Handle unknown id
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout engine errors
	ErrCodeReference Code = "REFERENCE_ERROR"
	ErrCodeCycle     Code = "CYCLE_ERROR"
	ErrCodeMalformed Code = "MALFORMED_PROPERTIES"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	ID      string // Offending identifier, if any
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Reference reports an edge or entity that points at an unknown id.
func Reference(id string) *Error {
	return &Error{
		Code:    ErrCodeReference,
		Message: fmt.Sprintf("unknown id %q", id),
		ID:      id,
	}
}

// Cycle reports a bundle whose generation never settled.
func Cycle(bundleID string) *Error {
	return &Error{
		Code:    ErrCodeCycle,
		Message: fmt.Sprintf("generation propagation did not converge at bundle %q: input is not acyclic", bundleID),
		ID:      bundleID,
	}
}

// Malformed reports a property bag that is missing or misusing a required field.
// id may be empty when the bag carries no usable identifier at all.
func Malformed(id, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeMalformed,
		Message: fmt.Sprintf(format, args...),
		ID:      id,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetID extracts the offending identifier from an error, if available.
func GetID(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.ID
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
