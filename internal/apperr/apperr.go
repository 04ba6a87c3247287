// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP handlers. Services return errors built from these constructors;
// handlers translate them to status codes without inspecting messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP translation.
type Kind int

const (
	// KindValidation covers bad or missing input fields.
	KindValidation Kind = iota
	// KindQuotaExceeded is a validation subtype: the per-user booking quota.
	KindQuotaExceeded
	// KindNotFound means a referenced dentist, booking or user is absent.
	KindNotFound
	// KindForbidden is a policy denial.
	KindForbidden
)

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func QuotaExceeded(format string, args ...any) error {
	return &Error{Kind: KindQuotaExceeded, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err and whether err carries one. Errors without
// a kind are infrastructure faults and map to 500 at the boundary.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}

func IsForbidden(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindForbidden
}
