// Package errors provides unified error handling for shellkit.
// It implements structured error types with error codes and retryable
// detection so callers can classify failures without string matching.
package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// SpawnFailed creates a new AppError for an executable that could not be started.
func SpawnFailed(binary string) *AppError {
	return &AppError{
		Code: ErrCodeSpawnFailed, Message: fmt.Sprintf("Unable to start %s. Verify the executable exists and is runnable.", binary),
		Retryable: false,
		Details:   map[string]any{"binary": binary},
	}
}

// ProcessExit creates a new AppError for a process that exited with a non-zero status.
func ProcessExit(binary string, code int) *AppError {
	return &AppError{
		Code: ErrCodeProcessExit, Message: fmt.Sprintf("%s exited with status %d.", binary, code),
		Retryable: true,
		Details:   map[string]any{"binary": binary, "exit_code": code},
	}
}

// Timeout creates a new AppError for an operation that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation took too long.",
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// Canceled creates a new AppError for an operation canceled by its caller.
func Canceled(operation string) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "The operation was canceled.",
		Retryable: false,
		Details:   map[string]any{"operation": operation},
	}
}

// IOFailure creates a new AppError for a failed read or write.
func IOFailure(path string, cause error) *AppError {
	details := make(map[string]any)
	if path != "" {
		details["path"] = path
	}
	return &AppError{
		Code: ErrCodeIOFailure, Message: "A read or write failed.",
		Retryable: true, Details: details, Cause: cause,
	}
}

// NotFound creates a new AppError for a path that was not found.
func NotFound(path string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s was not found.", path),
		Retryable: false,
		Details:   map[string]any{"path": path},
	}
}

// CacheCorrupt creates a new AppError for an unreadable memoization file.
// Corruption is fatal: silently discarding the file would silently redo
// expensive work, or worse, replay wrong data.
func CacheCorrupt(path string, line int) *AppError {
	return &AppError{
		Code: ErrCodeCacheCorrupt, Message: fmt.Sprintf("Memoization file %s is corrupt at line %d. Remove it to recompute.", path, line),
		Retryable: false,
		Details:   map[string]any{"path": path, "line": line},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Retryable: false,
		Details:   map[string]any{"field": field},
	}
}

// InvalidPattern creates a new AppError for a pattern that cannot be used safely.
func InvalidPattern(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidPattern, Message: fmt.Sprintf("Invalid pattern: %s", reason),
		Retryable: false,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}
