package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced in the response envelope.
const (
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeLLMError        = "LLM_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeIndexRequired   = "INDEX_REQUIRED"
)

var statusByCode = map[string]int{
	CodeUnauthorized:    http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeNotFound:        http.StatusNotFound,
	CodeValidationError: http.StatusBadRequest,
	CodeLLMError:        http.StatusInternalServerError,
	CodeInternalError:   http.StatusInternalServerError,
	CodeIndexRequired:   http.StatusInternalServerError,
}

// Error carries a taxonomy code alongside the message. Handlers map it to
// the HTTP status; the message is shown to the caller as-is.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus returns the status mapped to the error code.
func (e *Error) HTTPStatus() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func Validation(message string) *Error   { return New(CodeValidationError, message) }
func LLM(message string) *Error          { return New(CodeLLMError, message) }
func Internal(message string) *Error     { return New(CodeInternalError, message) }

// From converts any error to an *Error, wrapping unknown errors as
// INTERNAL_ERROR so nothing leaks through the envelope unmapped.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err.Error())
}
