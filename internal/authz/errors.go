package authz

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes surfaced to callers. Handlers map each code to exactly one HTTP status.
const (
	EUnauthorized          = "unauthorized"
	EForbidden             = "forbidden"
	ENotFound              = "not found"
	EInvalid               = "invalid"
	EDuplicateOrganization = "duplicate organization"
	EInternal              = "internal error"
)

// Error is the error type returned by the authorization core and the services built on it.
//
// Code is meant for programs, Msg for the person reading the response, Op names the
// operation that failed and Err is the wrapped cause, if any.
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		var b strings.Builder
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
		return b.String()
	} else if e.Msg != "" {
		return e.Msg
	} else if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against another *Error with the same code, so sentinel
// comparisons such as errors.Is(err, ErrForbidden) work on any forbidden error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Msg == "" && t.Op == ""
}

var (
	ErrUnauthorized          = &Error{Code: EUnauthorized}
	ErrForbidden             = &Error{Code: EForbidden}
	ErrNotFound              = &Error{Code: ENotFound}
	ErrInvalid               = &Error{Code: EInvalid}
	ErrDuplicateOrganization = &Error{Code: EDuplicateOrganization}
)

// ErrorCode returns the code of the first *Error in the chain, EInternal for any other
// non-nil error and "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return EInternal
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Err != nil {
		return ErrorCode(e.Err)
	}
	return EInternal
}

// ErrorMessage returns the message of the first *Error in the chain that carries one.
func ErrorMessage(err error) string {
	var e *Error
	for errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		if e.Err == nil {
			break
		}
		err = e.Err
	}
	return ""
}

// Forbidden builds a forbidden error for op.
func Forbidden(op, msg string) *Error {
	return &Error{Code: EForbidden, Op: op, Msg: msg}
}

// NotFound builds a not found error for op.
func NotFound(op, msg string) *Error {
	return &Error{Code: ENotFound, Op: op, Msg: msg}
}

// Invalid builds a validation error for op.
func Invalid(op, msg string) *Error {
	return &Error{Code: EInvalid, Op: op, Msg: msg}
}

// Unauthorized builds an authentication error for op.
func Unauthorized(op, msg string) *Error {
	return &Error{Code: EUnauthorized, Op: op, Msg: msg}
}

// Internal wraps an unexpected failure.
func Internal(op string, err error) *Error {
	return &Error{Code: EInternal, Op: op, Err: err}
}
