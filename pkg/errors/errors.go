package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code identifies an error class shared across the API surface, the
// lifecycle services and the background workers. Codes are part of the
// wire contract: clients branch on them, so they never change meaning.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotPermitted      Code = "NOT_PERMITTED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeStateConflict     Code = "STATE_CONFLICT"
	CodeAlreadyLocked     Code = "ALREADY_LOCKED"
	CodeAlreadySuperseded Code = "ALREADY_SUPERSEDED"
	CodeIdempotency       Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit         Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeDependency        Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code renders over HTTP. DetailsAllowed
// gates whether structured details reach the client; codes that could
// leak internals keep it off.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func meta(status int, retryable, detailsAllowed bool, publicMessage string) Metadata {
	return Metadata{
		HTTPStatus:     status,
		Retryable:      retryable,
		PublicMessage:  publicMessage,
		DetailsAllowed: detailsAllowed,
	}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:        meta(http.StatusBadRequest, false, true, "validation failed"),
	CodeUnauthorized:      meta(http.StatusUnauthorized, false, false, "authentication required"),
	CodeForbidden:         meta(http.StatusForbidden, false, false, "access denied"),
	CodeNotPermitted:      meta(http.StatusForbidden, false, true, "action not permitted"),
	CodeNotFound:          meta(http.StatusNotFound, false, false, "resource not found"),
	CodeConflict:          meta(http.StatusConflict, false, false, "conflict detected"),
	CodeStateConflict:     meta(http.StatusUnprocessableEntity, false, true, "state transition disallowed"),
	CodeAlreadyLocked:     meta(http.StatusConflict, false, false, "contract is locked"),
	CodeAlreadySuperseded: meta(http.StatusConflict, false, true, "contract has been superseded"),
	CodeIdempotency:       meta(http.StatusConflict, false, true, "idempotency key reused"),
	CodeRateLimit:         meta(http.StatusTooManyRequests, false, false, "rate limit exceeded"),
	CodeInternal:          meta(http.StatusInternalServerError, true, false, "internal server error"),
	CodeDependency:        meta(http.StatusServiceUnavailable, true, true, "dependency unavailable"),
}

// MetadataFor returns the rendering rules for a code. Unknown codes
// fall back to the internal-error metadata.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error carried from services up to the response
// writer. Methods are nil-safe so callers can chain off As without a
// nil check.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying cause. A nil cause
// degrades to New.
func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails sets structured details for the client. They are only
// rendered when the code's metadata allows it.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the typed error from anywhere in err's chain, or returns
// nil when there isn't one.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
