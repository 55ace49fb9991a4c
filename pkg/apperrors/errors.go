// Package apperrors defines the error taxonomy shared by all domain
// operations. Handlers map each kind to an HTTP status in one place so
// raw driver errors never become the user-facing message.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindValidation: malformed or missing input, rejected before any
	// statement executes.
	KindValidation Kind = iota
	// KindDuplicate: a unique-key constraint was violated. Fatal for
	// username registration, benign for playlist-song links.
	KindDuplicate
	// KindNotFound: a referenced entity does not exist.
	KindNotFound
	// KindUnauthorized: credential or session check failed.
	KindUnauthorized
	// KindStorage: blob persistence failed.
	KindStorage
	// KindTransaction: a multi-step operation failed and was rolled back.
	KindTransaction
	// KindInternal: everything else.
	KindInternal
)

type Error struct {
	Kind    Kind
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

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Duplicate(msg string) error {
	return &Error{Kind: KindDuplicate, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Storage(msg string, err error) error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

func Transaction(msg string, err error) error {
	return &Error{Kind: KindTransaction, Message: msg, Err: err}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// StatusCode maps an error to the HTTP status handlers should return.
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindStorage, KindTransaction, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for err, or a generic one for
// untyped errors so backend detail is not leaked to clients.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
