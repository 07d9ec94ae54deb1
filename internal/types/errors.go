package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for JamBot engine errors.
type ErrorCode string

// Tree invariant error codes. These indicate a mission tree built by
// something other than the intended construction path and are fatal.
const (
	TREE_CYCLE_DETECTED ErrorCode = "TREE_CYCLE_DETECTED"
	TREE_NODE_NOT_FOUND ErrorCode = "TREE_NODE_NOT_FOUND"
	TREE_INVALID        ErrorCode = "TREE_INVALID"
)

// Mapping error codes
const (
	MAPPING_UNHANDLED_OPERATION ErrorCode = "MAPPING_UNHANDLED_OPERATION"
	MAPPING_SELECTOR_INVALID    ErrorCode = "MAPPING_SELECTOR_INVALID"
)

// Mission definition error codes
const (
	MISSION_LOAD_FAILED       ErrorCode = "MISSION_LOAD_FAILED"
	MISSION_PARSE_FAILED      ErrorCode = "MISSION_PARSE_FAILED"
	MISSION_VALIDATION_FAILED ErrorCode = "MISSION_VALIDATION_FAILED"
)

// Tool catalog error codes
const (
	CATALOG_LOAD_FAILED  ErrorCode = "CATALOG_LOAD_FAILED"
	CATALOG_PARSE_FAILED ErrorCode = "CATALOG_PARSE_FAILED"
	TOOL_NOT_FOUND       ErrorCode = "TOOL_NOT_FOUND"
	TOOL_ALREADY_EXISTS  ErrorCode = "TOOL_ALREADY_EXISTS"
	TOOL_INVALID         ErrorCode = "TOOL_INVALID"
)

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Event error codes
const (
	EVENT_EMITTER_CLOSED ErrorCode = "EVENT_EMITTER_CLOSED"
)

// JamError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type JamError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *JamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *JamError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a JamError with the same Code.
func (e *JamError) Is(target error) bool {
	var jamErr *JamError
	if errors.As(target, &jamErr) {
		return e.Code == jamErr.Code
	}
	return false
}

// NewError creates a new non-retryable JamError with the given code and message.
func NewError(code ErrorCode, message string) *JamError {
	return &JamError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable JamError with the given code and message.
// Use this for failures that may succeed on a retry (e.g., a failed tool run).
func NewRetryableError(code ErrorCode, message string) *JamError {
	return &JamError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable JamError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *JamError {
	return &JamError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
