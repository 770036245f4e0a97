// Package errors provides structured error types for tasker.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - CYCLE_DETECTED: A dependency would close a loop
//   - NOT_FOUND: Resource not found
//   - NETWORK_ERROR, TIMEOUT: Cache backend connectivity
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown format: %s", format)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Map layout engine errors at the edge of the system
//	res, err := layout.Build(nodes, edges)
//	if err != nil {
//	    return errors.FromLayout(err)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iloginov/tasker/pkg/dag"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidID     Code = "INVALID_ID"

	// Graph structure errors
	ErrCodeCycleDetected Code = "CYCLE_DETECTED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
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

// FromLayout converts an error from the layout engine into a coded error.
//
//   - *dag.CycleError becomes CYCLE_DETECTED
//   - *dag.ValidationError for a bad option becomes INVALID_INPUT
//   - any other *dag.ValidationError becomes INVALID_GRAPH
//   - errors that already carry a code pass through unchanged
//   - everything else becomes INTERNAL_ERROR
//
// The engine error stays reachable through errors.As. FromLayout(nil) is nil.
func FromLayout(err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return err
	}

	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		return Wrap(ErrCodeCycleDetected, err, "dependency cycle: %s", CyclePath(cycle.Nodes))
	}
	var invalid *dag.ValidationError
	if errors.As(err, &invalid) {
		if errors.Is(err, dag.ErrInvalidOption) {
			return Wrap(ErrCodeInvalidInput, err, "invalid layout option: %s", invalid.Detail)
		}
		return Wrap(ErrCodeInvalidGraph, err, "invalid graph: %s", invalid.Error())
	}
	return Wrap(ErrCodeInternal, err, "layout failed")
}

// CyclePath renders cycle nodes as a closed path, "a -> b -> a".
func CyclePath(nodes []string) string {
	if len(nodes) == 0 {
		return ""
	}
	return strings.Join(append(nodes[:len(nodes):len(nodes)], nodes[0]), " -> ")
}

// CycleNodes returns the nodes of the dependency cycle behind err, or nil.
func CycleNodes(err error) []string {
	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		return cycle.Nodes
	}
	return nil
}
