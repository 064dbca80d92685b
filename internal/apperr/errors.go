// Package apperr defines the error kinds that cross the HTTP boundary.
//
// Services classify every store or validation failure into one of these kinds;
// the server maps a kind to a status code and a client-safe message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindExpired
	KindDuplicateSlug
	KindUpstreamTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindExpired:
		return "expired"
	case KindDuplicateSlug:
		return "duplicate_slug"
	case KindUpstreamTimeout:
		return "upstream_timeout"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound, KindExpired:
		return http.StatusNotFound
	case KindDuplicateSlug:
		return http.StatusConflict
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrAuthentication  = &Error{Kind: KindAuthentication}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrExpired         = &Error{Kind: KindExpired}
	ErrDuplicateSlug   = &Error{Kind: KindDuplicateSlug}
	ErrUpstreamTimeout = &Error{Kind: KindUpstreamTimeout}
	ErrInternal        = &Error{Kind: KindInternal}
)

func Validation(fields ...FieldError) *Error {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return &Error{
		Kind:    KindValidation,
		Message: "Invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

func Authentication(message string) *Error {
	if message == "" {
		message = "Authentication required"
	}
	return &Error{Kind: KindAuthentication, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Expired is reported to public callers exactly like NotFound.
func Expired(resource string) *Error {
	return &Error{Kind: KindExpired, Message: fmt.Sprintf("%s not found", resource)}
}

func DuplicateSlug(slug string, err error) *Error {
	return &Error{
		Kind:    KindDuplicateSlug,
		Message: fmt.Sprintf("slug %q is already in use", slug),
		Fields:  []FieldError{{Field: "slug", Message: "already in use"}},
		Err:     err,
	}
}

func UpstreamTimeout(err error) *Error {
	return &Error{Kind: KindUpstreamTimeout, Message: "The service timed out, please try again later", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// From returns err as an *Error, treating anything unclassified as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf reports the kind of err, KindInternal when unclassified.
func KindOf(err error) Kind {
	return From(err).Kind
}

// FieldNames lists the offending field names in order.
func (e *Error) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}
