package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a service error. Every kind maps to exactly one HTTP
// status, written by Write at the handler/middleware boundary.
type Kind int

const (
	KindStorage Kind = iota
	KindBadRequest
	KindConflict
	KindNotFound
	KindInvalidCredentials
	KindInvalidToken
	KindInsufficientScope
	KindUpstream
)

type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

func Storage(message string) *Error {
	return &Error{KindStorage, message, http.StatusInternalServerError}
}

func BadRequest(message string) *Error {
	return &Error{KindBadRequest, message, http.StatusBadRequest}
}

func Conflict(message string) *Error {
	return &Error{KindConflict, message, http.StatusConflict}
}

func NotFound(message string) *Error {
	return &Error{KindNotFound, message, http.StatusNotFound}
}

// InvalidCredentials is deliberately a fixed message: unknown email and
// wrong password must be indistinguishable to the caller.
func InvalidCredentials() *Error {
	return &Error{KindInvalidCredentials, "Invalid credentials", http.StatusUnauthorized}
}

func InvalidToken(message string) *Error {
	return &Error{KindInvalidToken, message, http.StatusUnauthorized}
}

func InsufficientScope() *Error {
	return &Error{KindInsufficientScope, "Insufficient scope", http.StatusForbidden}
}

func Upstream(message string) *Error {
	return &Error{KindUpstream, message, http.StatusBadGateway}
}

func is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func IsConflict(err error) bool           { return is(err, KindConflict) }
func IsNotFound(err error) bool           { return is(err, KindNotFound) }
func IsInvalidCredentials(err error) bool { return is(err, KindInvalidCredentials) }
func IsInvalidToken(err error) bool       { return is(err, KindInvalidToken) }
func IsInsufficientScope(err error) bool  { return is(err, KindInsufficientScope) }
func IsUpstream(err error) bool           { return is(err, KindUpstream) }

// Write reports err to the client with its mapped status code.
// Unclassified errors default to 500.
func Write(w http.ResponseWriter, err error) {
	var e *Error
	if errors.As(err, &e) {
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
