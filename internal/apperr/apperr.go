// Package apperr is the error taxonomy shared by services, middleware and
// the HTTP layer. Services return *Error values; the HTTP error handler
// maps the Kind to a status code and renders it, so handlers never build
// status codes themselves.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	Validation   Kind = "validation"
	NotFound     Kind = "not_found"
	Unauthorized Kind = "unauthorized"
	// ExpiredToken is kept apart from Unauthorized so clients know an
	// expired access token calls for a refresh, not a re-login.
	ExpiredToken Kind = "expired_token"
	InvalidToken Kind = "invalid_token"
	Forbidden    Kind = "forbidden"
	Conflict     Kind = "conflict"
	// External marks failures of a dependency: database, cache, payment
	// provider, asset store.
	External Kind = "external"
	Internal Kind = "internal_error"
)

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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf classifies any error; errors outside the taxonomy are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized, ExpiredToken, InvalidToken:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	case External:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
