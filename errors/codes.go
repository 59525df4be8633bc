package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Process errors
const (
	// ErrCodeSpawnFailed indicates the executable could not be started.
	ErrCodeSpawnFailed ErrorCode = "SPAWN_FAILED"
	// ErrCodeProcessExit indicates the process completed with a non-zero status.
	ErrCodeProcessExit ErrorCode = "PROCESS_EXIT"
	// ErrCodeTimeout indicates the operation exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates the operation was canceled by its caller.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Stream and I/O errors
const (
	// ErrCodeIOFailure indicates a read or write on a pipe or file failed.
	ErrCodeIOFailure ErrorCode = "IO_FAILURE"
	// ErrCodeNotFound indicates a path or resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeCacheCorrupt indicates a memoization file could not be parsed.
	ErrCodeCacheCorrupt ErrorCode = "CACHE_CORRUPT"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidPattern indicates a pattern cannot be used safely
	// (for example, a substitution pattern matching the empty string).
	ErrCodeInvalidPattern ErrorCode = "INVALID_PATTERN"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:     true,
	ErrCodeIOFailure:   true,
	ErrCodeProcessExit: true,
	ErrCodeSpawnFailed: false,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
