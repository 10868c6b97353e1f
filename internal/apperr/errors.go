package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Code identifies one entry of the error taxonomy. It is also the value of the
// "error" field in every error response.
type Code string

const (
	CodeValidation   Code = "validation_error"
	CodeUnauthorized Code = "unauthorized"
	CodeConflict     Code = "conflict"
	CodeNotFound     Code = "not_found"
	CodeInternal     Code = "internal_error"
)

// Error is a failure the API knows how to report to a client.
type Error struct {
	Code    Code
	Message string
	// Fields carries per-field detail for validation errors.
	Fields FieldErrors
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error code to an HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Invalid builds a validation error for a single field.
func Invalid(field, reason string) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: FieldErrors{field: reason}}
}

// BadRequest is a validation error without field detail, e.g. an unparsable body.
func BadRequest(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}

// FieldErrors collects validation failures keyed by field name.
type FieldErrors map[string]string

// Add records the first failure seen for a field.
func (f FieldErrors) Add(field, reason string) {
	if _, exists := f[field]; !exists {
		f[field] = reason
	}
}

// Err returns nil when nothing was recorded.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &Error{Code: CodeValidation, Message: f.summary(), Fields: f}
}

func (f FieldErrors) summary() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
