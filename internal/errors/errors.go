// Package errors defines the user-facing failure kinds returned by the domain
// services and the handler that turns them into chat replies.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an expected, recoverable failure.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindAlreadyExists Kind = "already_exists"
	KindUnavailable   Kind = "unavailable"
	KindBadInput      Kind = "bad_input"
)

// AppError is a failure whose Message is safe to show to the user.
type AppError struct {
	Kind    Kind
	Entity  string
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// NotFound reports a missing user, list, item, contact or place.
func NotFound(entity, format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists reports a uniqueness violation on create.
func AlreadyExists(entity, format string, args ...any) *AppError {
	return &AppError{Kind: KindAlreadyExists, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// Unavailable reports an upstream call that failed or returned a non-success status.
func Unavailable(cause error, format string, args ...any) *AppError {
	return &AppError{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...), cause: cause}
}

// BadInput reports missing or malformed command arguments.
func BadInput(format string, args ...any) *AppError {
	return &AppError{Kind: KindBadInput, Message: fmt.Sprintf(format, args...)}
}

// UserNotFound is shared by every service method that starts with an owner lookup.
func UserNotFound(userID int64) *AppError {
	return NotFound("user", "User with ID %d not found.", userID)
}

// As returns the AppError wrapped in err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
