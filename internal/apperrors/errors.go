package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// AppError is the single error type crossing the service/handler boundary.
type AppError struct {
	Code    ErrorCode
	Message string
	Status  int
	// Fields holds per-field messages for validation failures.
	Fields map[string][]string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Code so callers can write errors.Is(err, apperrors.ErrConflict).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code ErrorCode, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

func Wrap(err error, code ErrorCode, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

// Sentinels for errors.Is; only Code is compared.
var (
	ErrValidation   = New(CodeValidationFailed, "validation failed", http.StatusBadRequest)
	ErrNotFound     = New(CodeNotFound, "not found", http.StatusNotFound)
	ErrConflict     = New(CodeConflict, "conflict", http.StatusConflict)
	ErrForbidden    = New(CodeForbidden, "forbidden", http.StatusForbidden)
	ErrUnauthorized = New(CodeUnauthorized, "unauthorized", http.StatusUnauthorized)
	ErrInvalidState = New(CodeInvalidStatus, "invalid state", http.StatusBadRequest)
	ErrInternal     = New(CodeInternalError, "internal error", http.StatusInternalServerError)
)

func Validation(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

// ValidationFields builds a validation error carrying per-field messages.
func ValidationFields(message string, fields map[string][]string) *AppError {
	e := Validation(message)
	e.Fields = fields
	return e
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// InvalidState is returned when an operation is attempted outside its lifecycle state.
func InvalidState(message string) *AppError {
	return New(CodeInvalidStatus, message, http.StatusBadRequest)
}

func Internal(err error) *AppError {
	return Wrap(err, CodeInternalError, "Server error", http.StatusInternalServerError)
}

// FromDB converts a GORM error into an AppError. what names the entity, e.g. "Job".
func FromDB(err error, what string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(err, CodeNotFound, what+" not found", http.StatusNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Wrap(err, CodeConflict, what+" already exists", http.StatusConflict)
	default:
		return Internal(err)
	}
}

// As extracts an AppError, wrapping anything else as internal.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
