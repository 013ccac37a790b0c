// Package apperr defines the error kinds shared by the OAuth and Meet provisioning
// packages. Every failure that crosses a package boundary is one of these kinds so the
// HTTP and MCP surfaces can decide what to tell the caller without parsing messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind string

const (
	// KindConfiguration indicates missing or malformed OAuth configuration.
	KindConfiguration Kind = "configuration"

	// KindInvalidArgument indicates a missing authorization code, token or state.
	KindInvalidArgument Kind = "invalid_argument"

	// KindTokenExchange indicates the token endpoint returned a non-200 status or an
	// unparsable body.
	KindTokenExchange Kind = "token_exchange"

	// KindSpaceCreation indicates the Meet create-space RPC failed.
	KindSpaceCreation Kind = "space_creation"
)

// Error is a classified failure.
type Error struct {
	Kind        Kind   // What went wrong
	Op          string // Operation that failed (e.g., "google.exchange_code")
	Description string // Human-readable description
	Err         error  // Underlying cause, may be nil
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. This lets callers match on
// the exported sentinels with errors.Is regardless of Op, Description or cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is matching.
var (
	ErrConfiguration   = &Error{Kind: KindConfiguration}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrTokenExchange   = &Error{Kind: KindTokenExchange}
	ErrSpaceCreation   = &Error{Kind: KindSpaceCreation}
)

// New creates a classified error without an underlying cause.
func New(kind Kind, op, description string) *Error {
	return &Error{Kind: kind, Op: op, Description: description}
}

// Newf creates a classified error with a formatted description.
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Description: fmt.Sprintf(format, args...)}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, op, description string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Description: description, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status code used by API-style endpoints.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindTokenExchange:
		return http.StatusUnauthorized
	case KindSpaceCreation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
