// Package apperrors defines the error taxonomy the services speak and its
// mapping onto HTTP responses. Services return *Error values; handlers hand
// anything they get to Respond.
package apperrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an error for the caller.
type Kind int

const (
	// KindNotFound covers both "does not exist" and "exists but outside the
	// actor's visibility scope". The two are deliberately indistinguishable
	// so that lookups never leak existence.
	KindNotFound Kind = iota
	// KindForbidden means the resource is visible but the action is not
	// allowed for this actor.
	KindForbidden
	// KindValidation covers malformed input and ineligible targets.
	KindValidation
	// KindConflict is reserved; no current rule produces it.
	KindConflict
	// KindInternal is everything else.
	KindInternal
)

// Machine-readable codes carried in responses.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeForbidden     = "FORBIDDEN"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeConflict      = "CONFLICT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternalError = "INTERNAL_ERROR"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound builds a not-found error.
func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

// Forbidden builds a forbidden error.
func Forbidden(message string) *Error {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	return &Error{Kind: KindForbidden, Message: message}
}

// Validation builds a validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Conflict builds a conflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// IsNotFound reports whether err is a not-found application error.
func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindNotFound
}

// IsForbidden reports whether err is a forbidden application error.
func IsForbidden(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindForbidden
}

// IsValidation reports whether err is a validation application error.
func IsValidation(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindValidation
}

// response is the JSON error body.
type response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Respond writes err as a JSON error response. Unclassified errors become
// 500 with a generic message; their details are not exposed to clients.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, response{
			Code:    CodeInternalError,
			Message: "Internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	code := CodeInternalError
	switch appErr.Kind {
	case KindNotFound:
		status, code = http.StatusNotFound, CodeNotFound
	case KindForbidden:
		status, code = http.StatusForbidden, CodeForbidden
	case KindValidation:
		status, code = http.StatusBadRequest, CodeInvalidInput
	case KindConflict:
		status, code = http.StatusConflict, CodeConflict
	}

	c.JSON(status, response{Code: code, Message: appErr.Message})
}

// Unauthorized writes a 401 response. Authentication failures never reach
// the service layer, so they bypass the Error taxonomy.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	c.JSON(http.StatusUnauthorized, response{Code: CodeUnauthorized, Message: message})
}

// BadRequest writes a 400 response for transport-level binding failures.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request body"
	}
	c.JSON(http.StatusBadRequest, response{Code: CodeInvalidInput, Message: message})
}
