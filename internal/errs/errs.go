// Package errs defines the error kinds the engine reports. Kinds are
// business-level, not transport codes; handlers map them to HTTP at the edge.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindTransient Kind = iota // unexpected store failure, caller may retry
	KindValidation
	KindAuthRequired
	KindSelfAction
	KindNotFound
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func AuthRequired() *Error {
	return &Error{Kind: KindAuthRequired, Message: "authentication required"}
}

func SelfAction(message string) *Error {
	return &Error{Kind: KindSelfAction, Message: message}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf reports the kind of err, or KindTransient for anything that is not
// an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindSelfAction:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
