package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies application errors into the categories the API
// reports to clients.
type ErrorCode int

const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrForbidden
	ErrUnauthorized
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden:
		return http.StatusForbidden
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NewValidation(message string, err error) *AppError {
	return &AppError{Code: ErrValidation, Message: message, Err: err}
}

func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewForbidden(message string, err error) *AppError {
	return &AppError{Code: ErrForbidden, Message: message, Err: err}
}

func NewUnauthorized(err error) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: "unauthorized", Err: err}
}

func NewInternal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// CodeOf returns the ErrorCode of err when it wraps an AppError,
// ErrInternal otherwise.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// IsNotFound reports whether err is classified as a not-found error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrNotFound
}

// IsValidation reports whether err is classified as a validation error.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrValidation
}

// IsForbidden reports whether err is classified as a forbidden error.
func IsForbidden(err error) bool {
	return CodeOf(err) == ErrForbidden
}
