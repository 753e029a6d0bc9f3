package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure. Handlers map kinds onto HTTP
// statuses.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindNotFound         ErrorKind = "not_found"
	KindConflict         ErrorKind = "conflict"
	KindUnknownReference ErrorKind = "unknown_reference"
	KindUnauthorized     ErrorKind = "unauthorized"
	KindRateLimited      ErrorKind = "rate_limited"
	KindInternal         ErrorKind = "internal"
)

// Error is the error type returned by every service in this package.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Anything that is not a *Error is internal.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

var (
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid email or password."}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "invalid token"}
	ErrRecipeNotFound     = &Error{Kind: KindNotFound, Message: "Recipe not found."}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found."}
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "Email already exists."}
)

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func unknownReferenceError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnknownReference, Message: fmt.Sprintf(format, args...)}
}

func internalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// asServiceError passes *Error values through and wraps anything else as an
// internal failure described by message.
func asServiceError(message string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return internalError(message, err)
}
