package errors

import "fmt"

// ErrorCode represents a promptlog error code.
type ErrorCode string

const (
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"       // 400
	ErrFileNotFound         ErrorCode = "FILE_NOT_FOUND"        // 404
	ErrLoggingDisabled      ErrorCode = "LOGGING_DISABLED"      // 409
	ErrLogDirUnavailable    ErrorCode = "LOG_DIR_UNAVAILABLE"   // 500
	ErrAppendFailed         ErrorCode = "APPEND_FAILED"         // 500
	ErrClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE" // 503
	ErrInternal             ErrorCode = "INTERNAL"              // 500
)

// LogError represents a structured error with code, status, and details.
type LogError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LogError {
	return &LogError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewFileNotFound creates a 404 error for a missing log file.
func NewFileNotFound(path string) *LogError {
	return &LogError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("log file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewLoggingDisabled creates a 409 error for operations that require logging
// to be enabled.
func NewLoggingDisabled() *LogError {
	return &LogError{
		Code:    ErrLoggingDisabled,
		Status:  409,
		Message: "prompt logging is disabled; run 'promptlog enable' first",
	}
}

// NewLogDirUnavailable creates a 500 error when no candidate log directory
// could be created.
func NewLogDirUnavailable(tried []string) *LogError {
	return &LogError{
		Code:    ErrLogDirUnavailable,
		Status:  500,
		Message: "could not create a log directory at any candidate location",
		Details: map[string]any{"tried": tried},
	}
}

// NewAppendFailed creates a 500 error when both the append retries and the
// rewrite fallback failed.
func NewAppendFailed(path string, err error) *LogError {
	return &LogError{
		Code:    ErrAppendFailed,
		Status:  500,
		Message: fmt.Sprintf("failed to write log entry to %s: %v", path, err),
		Details: map[string]any{"path": path},
	}
}

// NewClipboardUnavailable creates a 503 error for clipboard read failures.
func NewClipboardUnavailable(err error) *LogError {
	msg := "clipboard is not readable"
	if err != nil {
		msg = fmt.Sprintf("clipboard is not readable: %v", err)
	}
	return &LogError{
		Code:    ErrClipboardUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *LogError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &LogError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a LogError with the given code.
func Is(err error, code ErrorCode) bool {
	if lErr, ok := err.(*LogError); ok {
		return lErr.Code == code
	}
	return false
}
