package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeConflict   = "CONFLICT"
	ErrCodeInvariant  = "INVARIANT_VIOLATION"
	ErrCodeStorage    = "STORAGE_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// AppError carries an error code, a client-safe message and the HTTP status to answer with.
type AppError struct {
	Code      string
	Message   string
	Status    int
	Retryable bool
	Details   map[string]string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
		Details: map[string]string{field: reason},
	}
}

// NewValidationDetails reports several field failures at once.
func NewValidationDetails(details map[string]string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "validation failed",
		Status:  http.StatusBadRequest,
		Details: details,
	}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewConflictError reports a write that lost against a concurrent or repeated one.
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// NewInvariantError reports stored data that breaks a domain invariant.
func NewInvariantError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInvariant,
		Message: "stored state violates an invariant",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewStorageError wraps a store failure. The caller may retry.
func NewStorageError(err error) *AppError {
	return &AppError{
		Code:      ErrCodeStorage,
		Message:   "storage unavailable",
		Status:    http.StatusServiceUnavailable,
		Retryable: true,
		Err:       err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// As returns err as an *AppError if it is one, or wraps it as an internal error.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// IsAppError reports whether err already carries an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}
