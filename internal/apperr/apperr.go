// Package apperr carries an HTTP status and a stable error code alongside a Go
// error so a single middleware can translate failures into responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

const maxStackDepth = 32

type Error struct {
	Status  int
	Code    string
	Message string
	Details interface{}
	Err     error
	Stack   []string
}

func New(status int, code, message string) *Error {
	return newError(status, code, message)
}

// newError must be called directly by an exported constructor so the
// captured stack starts at the constructor's caller.
func newError(status int, code, message string) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Stack:   callers(4),
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func BadRequest(code, message string) *Error {
	return newError(http.StatusBadRequest, code, message)
}

func Unauthorized(code, message string) *Error {
	return newError(http.StatusUnauthorized, code, message)
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, "not_found", message)
}

func TooManyRequests(message string) *Error {
	return newError(http.StatusTooManyRequests, "rate_limited", message)
}

func Internal(message string, err error) *Error {
	return newError(http.StatusInternalServerError, "internal_error", message).Wrap(err)
}

// From returns err as an *Error, falling back to a 500 for anything that was
// not raised through this package.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Status == 0 {
			ae.Status = http.StatusInternalServerError
		}
		return ae
	}

	out := &Error{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error",
		Err:     err,
		Stack:   callers(3),
	}
	return out
}

func callers(skip int) []string {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	out := make([]string, 0, n)
	for {
		f, more := frames.Next()
		out = append(out, fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	return out
}
