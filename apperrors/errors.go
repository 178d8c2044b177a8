// Package apperrors carries the business-rule error taxonomy. Services
// return these; handlers map the code to an HTTP status. Anything not in
// the taxonomy is an internal error.
package apperrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeForbidden    Code = "forbidden"
	CodeConflict     Code = "conflict"
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
)

// Error is a business-rule violation with a stable code and the name of
// the entity or field it concerns.
type Error struct {
	Code    Code   `json:"code"`
	Entity  string `json:"entity"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Message)
}

func NotFound(entity, message string) *Error {
	return &Error{Code: CodeNotFound, Entity: entity, Message: message}
}

func Forbidden(entity, message string) *Error {
	return &Error{Code: CodeForbidden, Entity: entity, Message: message}
}

func Conflict(entity, message string) *Error {
	return &Error{Code: CodeConflict, Entity: entity, Message: message}
}

func BadRequest(entity, message string) *Error {
	return &Error{Code: CodeBadRequest, Entity: entity, Message: message}
}

func Unauthorized(entity, message string) *Error {
	return &Error{Code: CodeUnauthorized, Entity: entity, Message: message}
}

// Is reports whether err is an apperrors.Error carrying the given code.
func Is(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
