package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with an HTTP status code and a machine-readable key.
// Message is optional; the status text is used when it is empty.
type HTTPError struct {
	Code    int    // HTTP status code
	Key     string // Stable error code, e.g. "not_found"
	Message string // Human-readable description
	Err     error  // Underlying cause, never rendered
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Key + ": " + e.Message
	}
	return e.Key
}

func (e HTTPError) Unwrap() error { return e.Err }

// Text returns the message rendered to clients.
func (e HTTPError) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrForbidden           = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Key: "conflict"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
)

// NewHTTPError creates an HTTP error with the given status code, key and message.
//
// Example:
//
//	err := handler.NewHTTPError(http.StatusForbidden, "subscription_mismatch", "subscription does not belong to user")
func NewHTTPError(code int, key, message string) HTTPError {
	return HTTPError{Code: code, Key: key, Message: message}
}

// Wrap returns a copy of e carrying err as the cause and its message.
func (e HTTPError) Wrap(err error) HTTPError {
	e.Err = err
	if err != nil && e.Message == "" {
		e.Message = err.Error()
	}
	return e
}
