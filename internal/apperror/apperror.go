package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so transport can pick the right HTTP status.
type Kind int

const (
	Validation Kind = iota // bad input from the client
	NotFound
	InvalidState // request is well-formed but the state disallows it
	Unauthorized
	Forbidden
	Conflict
	Unexpected // persistence/network failure; details never leak to the caller
)

var statusByKind = map[Kind]int{
	Validation:   http.StatusBadRequest,
	NotFound:     http.StatusNotFound,
	InvalidState: http.StatusBadRequest,
	Unauthorized: http.StatusUnauthorized,
	Forbidden:    http.StatusForbidden,
	Conflict:     http.StatusConflict,
	Unexpected:   http.StatusInternalServerError,
}

// Error is a failure with a classification and a client-safe message.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New creates a classified error with a client-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf creates a classified error with a formatted client-facing message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a classification and client-facing message to an
// underlying cause. The cause stays available via errors.Is/As but is
// never part of the client message.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// HTTPStatus returns the status code for the classification.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message. Unexpected errors get a generic
// message regardless of what they wrap.
func (e *Error) Message() string {
	if e.kind == Unexpected {
		return "internal server error"
	}
	return e.msg
}

// StatusOf maps any error to an HTTP status; unclassified errors are 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message for any error.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return "internal server error"
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind == kind
	}
	return false
}
