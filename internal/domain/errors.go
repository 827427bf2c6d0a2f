package domain

import (
	"errors"
	"fmt"
)

// Kind machine-readable failure category carried to API callers.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage"
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// Error is returned by every service operation that fails.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func ValidationError(format string, args ...any) *Error {
	return Errorf(KindValidation, format, args...)
}

func NotFoundError(format string, args ...any) *Error {
	return Errorf(KindNotFound, format, args...)
}

// ErrInvalidCredentials covers unknown user, wrong password and inactive account alike.
var ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "invalid username or password"}

// ErrSessionExpired absent, unknown or idle session.
var ErrSessionExpired = &Error{Kind: KindAuth, Message: "session expired, please log in again"}

// KindOf extracts the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf user-facing text for err (without wrapped internals for storage failures).
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		if de.Kind == KindStorage || de.Kind == KindConflict {
			return de.Message
		}
		return de.Error()
	}
	return "internal error"
}
