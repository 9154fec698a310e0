// Package apperror defines the domain error taxonomy shared by the store,
// service and HTTP layers.
//
// Every error a caller is expected to react to wraps one of the sentinel
// values below, so callers test with errors.Is and never inspect messages.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("invalid reference")
)

type AppError struct {
	Err     error  // sentinel
	Message string // human-readable message, safe to return to clients
	Field   string // optional: request field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a write rejected by a uniqueness rule, e.g. a food name
// that is already taken.
func Conflict(resource, value string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s %q already exists", resource, value),
	}
}

// InvalidReference reports a request pointing at a row that does not exist,
// such as logging an entry for an unknown food. Unlike NotFound it describes
// a bad request body rather than a missing target resource.
func InvalidReference(field, resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrInvalidReference,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
		Field:   field,
	}
}
