package errs

import "net/http"

// Application error codes. Each code maps onto one HTTP status class.
const (
	CodeInvalidArgument = 1001
	CodeUnauthenticated = 1002
	CodeForbidden       = 1003
	CodeNotFound        = 1004
	CodeConflict        = 1005
	CodeInternal        = 1500
)

var httpStatus = map[int]int{
	CodeInvalidArgument: http.StatusBadRequest,
	CodeUnauthenticated: http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeNotFound:        http.StatusNotFound,
	CodeConflict:        http.StatusConflict,
	CodeInternal:        http.StatusInternalServerError,
}

// Shorthand constructors used throughout the handlers and services.

func InvalidArg(msg string) error { return New(CodeInvalidArgument, msg) }

func Unauthenticated(msg string) error { return New(CodeUnauthenticated, msg) }

func Forbidden(msg string) error { return New(CodeForbidden, msg) }

func NotFound(msg string) error { return New(CodeNotFound, msg) }

func Conflict(msg string) error { return New(CodeConflict, msg) }

func Internal(msg string) error { return New(CodeInternal, msg) }
