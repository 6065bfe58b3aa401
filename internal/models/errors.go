package models

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindNotFound            ErrorKind = "not_found"
	KindAuthorizationDenied ErrorKind = "authorization_denied"
	KindStorageFailure      ErrorKind = "storage_failure"
)

// AppError is the typed failure surfaced by the record store, the access
// model and the controllers. Handlers translate Kind into a status code.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(format string, args ...any) error {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) error {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewAuthorizationDeniedError(format string, args ...any) error {
	return &AppError{Kind: KindAuthorizationDenied, Message: fmt.Sprintf(format, args...)}
}

func NewStorageError(message string, err error) error {
	return &AppError{Kind: KindStorageFailure, Message: message, Err: err}
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
