package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups errors by the bounded context that owns them.
type Kind string

const (
	KindInventory   Kind = "inventory"
	KindOrder       Kind = "order"
	KindPayment     Kind = "payment"
	KindTransaction Kind = "transaction"
	KindCustomer    Kind = "customer"
)

// Error is the failure value every use case returns. Code is stable and is what
// errors.Is compares; Message and StatusCode are what the HTTP layer surfaces.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	StatusCode int
	cause      error
}

// New creates a sentinel error for a context package.
func New(kind Kind, code, message string, statusCode int) *Error {
	return &Error{
		Kind:       kind,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
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

// Is matches by Kind and Code so that message-specialized copies still compare
// equal to their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithMessage returns a copy carrying a case-specific message.
func (e *Error) WithMessage(message string) *Error {
	clone := *e
	clone.Message = message
	return &clone
}

// WithCause returns a copy wrapping the underlying failure. The cause is kept
// for logs and errors.Is chains, never for client responses.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

// StatusCode resolves the HTTP status for an error; unmapped errors default to
// an internal error response.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.StatusCode != 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// UserMessage resolves the client-facing message for an error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
