package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error

	// StatusCode and StatusText describe the backend response for
	// REQUEST_FAILED errors. StatusCode is 0 when no response arrived.
	StatusCode int
	StatusText string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:       appErr.Code,
			Message:    message,
			Cause:      err,
			StatusCode: appErr.StatusCode,
			StatusText: appErr.StatusText,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is, or wraps, an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeNotFound      = "NOT_FOUND"
	CodeInternalError = "INTERNAL_ERROR"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeRequestFailed = "REQUEST_FAILED"
	CodeDecodeFailed  = "DECODE_FAILED"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// RequestFailed reports a backend call that got a non-success status
func RequestFailed(operation string, statusCode int, statusText string) *AppError {
	return &AppError{
		Code:       CodeRequestFailed,
		Message:    fmt.Sprintf("%s failed: %s", operation, statusText),
		StatusCode: statusCode,
		StatusText: statusText,
	}
}

// RequestNotSent reports a backend call that never got a response
func RequestNotSent(operation string, cause error) *AppError {
	return &AppError{
		Code:    CodeRequestFailed,
		Message: fmt.Sprintf("%s failed", operation),
		Cause:   cause,
	}
}

// DecodeFailed reports a successful response whose body could not be parsed
func DecodeFailed(operation string, cause error) *AppError {
	return &AppError{
		Code:    CodeDecodeFailed,
		Message: fmt.Sprintf("%s: invalid response body", operation),
		Cause:   cause,
	}
}

// IsRequestFailed reports whether err is a REQUEST_FAILED error
func IsRequestFailed(err error) bool {
	return GetCode(err) == CodeRequestFailed
}

// IsDecodeFailed reports whether err is a DECODE_FAILED error
func IsDecodeFailed(err error) bool {
	return GetCode(err) == CodeDecodeFailed
}
