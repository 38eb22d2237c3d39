// Package apperr is the error taxonomy shared by every domain. Services
// return *AppError values (or plain errors that Classify understands) and
// the HTTP error middleware renders them.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups errors by how they are reported to clients.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindUnauthorized    Kind = "unauthorized"
	KindBusinessRule    Kind = "business_rule"
	KindTooManyRequests Kind = "too_many_requests"
	KindInternal        Kind = "internal"
)

// Error codes rendered in the "code" field of the error envelope.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
	CodeUserAlreadyExists   = "USER_ALREADY_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeTokenMissing        = "TOKEN_MISSING"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeAuthorNotFound      = "AUTHOR_NOT_FOUND"
	CodeBookNotFound        = "BOOK_NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeInvalidAuthorID     = "INVALID_AUTHOR_ID"
	CodeInvalidBookID       = "INVALID_BOOK_ID"
	CodeInvalidUserID       = "INVALID_USER_ID"
	CodeAuthorHasBooks      = "AUTHOR_HAS_BOOKS"
	CodeDuplicateEntry      = "DUPLICATE_ENTRY"
	CodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"
	CodeResourceNotFound    = "RESOURCE_NOT_FOUND"
	CodeRouteNotFound       = "ROUTE_NOT_FOUND"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeExportFailed        = "EXPORT_FAILED"
	CodeInternal            = "INTERNAL_ERROR"
)

// FieldError is one entry of the "details" list of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError carries everything the error envelope needs.
type AppError struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so that sentinel values work with errors.Is even when
// a factory produced a new instance with a formatted message.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithErr returns a copy of e wrapping cause.
func (e *AppError) WithErr(cause error) *AppError {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithMessage returns a copy of e with a different message.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

func statusOf(kind Kind) int {
	switch kind {
	case KindValidation, KindBusinessRule:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newErr(kind Kind, code, message string) *AppError {
	return &AppError{Kind: kind, Status: statusOf(kind), Code: code, Message: message}
}

func Validation(code, message string, details any) *AppError {
	e := newErr(KindValidation, code, message)
	e.Details = details
	return e
}

func Conflict(code, message string) *AppError {
	return newErr(KindConflict, code, message)
}

func NotFound(code, message string) *AppError {
	return newErr(KindNotFound, code, message)
}

func Unauthorized(code, message string) *AppError {
	return newErr(KindUnauthorized, code, message)
}

func BusinessRule(code, message string) *AppError {
	return newErr(KindBusinessRule, code, message)
}

func TooManyRequests(message string) *AppError {
	return newErr(KindTooManyRequests, CodeTooManyRequests, message)
}

func Internal(code, message string, cause error) *AppError {
	e := newErr(KindInternal, code, message)
	e.Err = cause
	return e
}

// IsKind reports whether err classifies as the given kind.
func IsKind(err error, kind Kind) bool {
	return Classify(err).Kind == kind
}
