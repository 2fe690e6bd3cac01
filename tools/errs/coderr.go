package errs

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CodeError is the error currency of the REST layer: a stable application
// code plus a message safe to show to clients. Detail is operator-facing and
// never serialized into responses.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"-"`
}

func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

// HTTPStatus maps the application code onto an HTTP status. Unknown codes
// report as internal errors rather than leaking.
func (e *CodeError) HTTPStatus() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

// Wrap annotates err with a stack trace at the point Wrap was called.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(err)
}

// WrapMsg annotates err with a message and a stack trace.
func WrapMsg(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Code extracts the CodeError from err's chain, if any.
func Code(err error) (*CodeError, bool) {
	var ce *CodeError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Is reports whether err carries the given application code.
func Is(err error, code int) bool {
	if ce, ok := Code(err); ok {
		return ce.Code == code
	}
	return false
}
