package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a machine-readable code across the
// service boundary so handlers can map failures without string matching.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(code string) *Error {
	return New(http.StatusNotFound, code, nil)
}

func Forbidden(code string) *Error {
	return New(http.StatusForbidden, code, nil)
}

func Unauthorized(code string) *Error {
	return New(http.StatusUnauthorized, code, nil)
}

func Invalid(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

func Conflict(code string) *Error {
	return New(http.StatusConflict, code, nil)
}

// From extracts an *Error or wraps err as a 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, "internal", err)
}
