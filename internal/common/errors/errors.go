// Package errors provides standardized error handling for the intent engine.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input-validation errors (hard rejections).
	ErrCodeEmptyQuery   ErrorCode = "EMPTY_QUERY"
	ErrCodeQueryTooLong ErrorCode = "QUERY_TOO_LONG"

	// LLM-fallback failures (recovered locally, kept for observability).
	ErrCodeLLMUnavailable     ErrorCode = "LLM_UNAVAILABLE"
	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed   ErrorCode = "LLM_REQUEST_FAILED"
	ErrCodeLLMResponseInvalid ErrorCode = "LLM_RESPONSE_INVALID"

	// Session store failures.
	ErrCodeSessionUnavailable ErrorCode = "SESSION_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is supports errors.Is matching on the error code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && e.Code == t.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewEmptyQueryError creates a non-retryable validation error for blank input.
func NewEmptyQueryError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyQuery,
		Message:   "Query must not be empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTooLongError creates a non-retryable validation error for oversized input.
func NewQueryTooLongError(length, limit int) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTooLong,
		Message:   "Query exceeds maximum length",
		Details:   fmt.Sprintf("query is %d characters, limit is %d", length, limit),
		Retryable: false,
		Metadata: map[string]interface{}{
			"length": length,
			"limit":  limit,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMUnavailableError signals that no fallback collaborator is configured.
func NewLLMUnavailableError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMUnavailable,
		Message:   "No LLM collaborator configured",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable timeout error for the fallback call.
func NewLLMTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM fallback call timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMRequestFailedError creates a retryable transport error for the fallback call.
func NewLLMRequestFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMRequestFailed,
		Message:   "LLM fallback request failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMResponseInvalidError creates a non-retryable error for malformed
// fallback responses. Any missing or malformed field counts as a failure.
func NewLLMResponseInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMResponseInvalid,
		Message:   "LLM fallback response failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionUnavailableError creates a retryable error for session store outages.
func NewSessionUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionUnavailable,
		Message:   "Conversation context store unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// CodeOf extracts the error code from err, or "" for foreign errors.
func CodeOf(err error) ErrorCode {
	if se, ok := err.(*StandardError); ok {
		return se.Code
	}
	return ""
}

// IsValidationError reports whether err is a caller-visible input rejection.
func IsValidationError(err error) bool {
	se, ok := err.(*StandardError)
	if !ok {
		return false
	}
	return se.Code == ErrCodeEmptyQuery || se.Code == ErrCodeQueryTooLong
}

// IsLLMFailure reports whether err belongs to the recovered fallback taxonomy.
func IsLLMFailure(err error) bool {
	se, ok := err.(*StandardError)
	if !ok {
		return false
	}
	switch se.Code {
	case ErrCodeLLMUnavailable, ErrCodeLLMTimeout, ErrCodeLLMRequestFailed, ErrCodeLLMResponseInvalid:
		return true
	}
	return false
}
