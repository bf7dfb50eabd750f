package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodePastDateLocked = "PAST_DATE_LOCKED"
	ErrCodeNotReady       = "NOT_READY"
	ErrCodeAlreadyDone    = "ALREADY_DONE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "PAST_DATE_LOCKED")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Task    string // Task that failed its readiness check, NOT_READY only
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewPastDateLockedError rejects an edit to a logical date before today.
func NewPastDateLockedError(dateKey string) *AppError {
	return &AppError{
		Code:    ErrCodePastDateLocked,
		Message: fmt.Sprintf("%s has passed and can no longer be edited", dateKey),
		Status:  403,
	}
}

// NewNotReadyError rejects marking a task done before its fields are filled in.
func NewNotReadyError(task string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeNotReady,
		Message: reason,
		Status:  422,
		Task:    task,
	}
}

// NewAlreadyDoneError rejects a second completion of a one-shot challenge.
func NewAlreadyDoneError(what string) *AppError {
	return &AppError{
		Code:    ErrCodeAlreadyDone,
		Message: fmt.Sprintf("%s is already completed for this day", what),
		Status:  409,
	}
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
