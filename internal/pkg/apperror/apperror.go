package apperror

import (
	"errors"
	"net/http"
)

// Error is a failure the client is allowed to see: an HTTP status and a message.
type Error struct {
	Code    int
	Message string
	// Extra is merged into the error body (e.g. the conflicting row).
	Extra map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

func Invalid(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Code: http.StatusConflict, Message: msg}
}

// With returns a copy of e carrying key in its body.
func (e *Error) With(key string, value interface{}) *Error {
	out := &Error{Code: e.Code, Message: e.Message, Extra: map[string]interface{}{}}
	for k, v := range e.Extra {
		out.Extra[k] = v
	}
	out.Extra[key] = value
	return out
}

// As reports whether err is (or wraps) an *Error.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

