// Package apperr defines the closed error taxonomy shared by the store, the
// pagination parser, and the HTTP layer, and the translator that renders any
// error into the stable external shape.
//
// Kinds and their HTTP statuses:
//
//	missing_parameter  400  pagination requires a parameter that was not supplied
//	parse_error        400  a supplied parameter cannot be converted
//	invalid_input      400  a record field (or the request body) fails validation
//	not_found          404  the target id is absent from its collection
//	internal_error     500  anything unclassified
//
// Producers return *Error values built with the constructors below. Callers
// branch with errors.Is against the sentinels (ErrNotFound, ...), which match
// on kind alone:
//
//	if errors.Is(err, apperr.ErrNotFound) {
//	    // handle missing
//	}
//
// Only Render maps an error to a status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error. The zero value is KindInternal so that anything
// not explicitly classified renders as a 500.
type Kind int

const (
	KindInternal Kind = iota
	KindMissingParameter
	KindParse
	KindInvalidInput
	KindNotFound
)

// String returns the machine-readable tag emitted in error payloads.
func (k Kind) String() string {
	switch k {
	case KindMissingParameter:
		return "missing_parameter"
	case KindParse:
		return "parse_error"
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	default:
		return "internal_error"
	}
}

// Status returns the HTTP status code associated with k.
func (k Kind) Status() int {
	switch k {
	case KindMissingParameter, KindParse, KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the single concrete error type of the taxonomy.
//
// Field and Value are optional context: the offending parameter or record
// field and, for parse failures, the raw value that was rejected. Err holds
// an underlying cause, if any; it is reachable through errors.Unwrap but is
// never shown to API clients for internal errors.
type Error struct {
	Kind  Kind
	Field string
	Value string
	Msg   string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind. This lets the
// sentinels below match any error of their kind regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is. Do not return these directly; use the
// constructors so messages carry context.
var (
	ErrInternal         = &Error{Kind: KindInternal}
	ErrMissingParameter = &Error{Kind: KindMissingParameter}
	ErrParse            = &Error{Kind: KindParse}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrNotFound         = &Error{Kind: KindNotFound}
)

// MissingParameter reports that field is required but absent.
func MissingParameter(field string) *Error {
	return &Error{
		Kind:  KindMissingParameter,
		Field: field,
		Msg:   fmt.Sprintf("missing parameter %q", field),
	}
}

// Parse reports that the raw value of field could not be converted.
func Parse(field, raw string, cause error) *Error {
	return &Error{
		Kind:  KindParse,
		Field: field,
		Value: raw,
		Msg:   fmt.Sprintf("cannot parse parameter %q from %q", field, raw),
		Err:   cause,
	}
}

// InvalidInput reports that a record field failed validation.
func InvalidInput(field, reason string) *Error {
	return &Error{
		Kind:  KindInvalidInput,
		Field: field,
		Msg:   fmt.Sprintf("invalid %s: %s", field, reason),
	}
}

// BadBody reports a request body that could not be decoded. Decode failures
// happen outside the store but still render as invalid_input.
func BadBody(cause error) *Error {
	return &Error{
		Kind: KindInvalidInput,
		Msg:  "invalid request body",
		Err:  cause,
	}
}

// NotFound reports that id is absent from collection.
func NotFound(collection, id string) *Error {
	return &Error{
		Kind:  KindNotFound,
		Field: "id",
		Value: id,
		Msg:   fmt.Sprintf("%s %q not found", collection, id),
	}
}

// Internal wraps an unclassified failure.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Msg: "internal server error", Err: cause}
}

// KindOf classifies err. Errors outside the taxonomy are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
