package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories the service can surface.
// Transport code maps kinds to HTTP status codes in exactly one place.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindTokenExpired   Kind = "token_expired"
	KindTokenInvalid   Kind = "token_invalid"
	KindExhausted      Kind = "generation_exhausted"
	KindRateLimited    Kind = "rate_limited"
	KindInternal       Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	// Details carries structured context (e.g. per-field validation messages).
	Details any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func WithDetails(kind Kind, message string, details any) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// KindOf classifies any error. Plain errors come back as KindInternal so
// nothing unclassified ever leaks a 4xx status.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
