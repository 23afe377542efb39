// Package domainerrors carries the coded error taxonomy shared by services and
// transports. Services create or wrap errors with a Code; the HTTP and CLI
// edges translate codes into statuses and user-facing notifications.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure. Values are stable and appear on the wire.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeInvalidState Code = "invalid_state"
	CodeInternal     Code = "internal_error"

	// Ledger and document failure kinds.
	CodeWalletUnavailable   Code = "wallet_unavailable"
	CodeUserRejected        Code = "user_rejected"
	CodeNotConnected        Code = "not_connected"
	CodeSubmissionFailed    Code = "submission_failed"
	CodeReverted            Code = "reverted"
	CodeConfirmationTimeout Code = "confirmation_timeout"
	CodeNotFound            Code = "not_found"
	CodeMalformed           Code = "malformed"
)

// Error is a coded domain error. Message is safe to show to callers; the
// wrapped cause is kept for logs and errors.Is/As.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without an underlying cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to err. A nil err still yields an error so
// callers can classify a failure they detected themselves.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// From extracts the outermost coded error from err's chain.
func From(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the code of the outermost coded error, or CodeInternal.
func CodeOf(err error) Code {
	if de, ok := From(err); ok {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost coded error in err's chain has code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// SafeToRetry reports whether a failure with this code left the ledger
// untouched. Only a confirmation timeout means a transaction may still land.
func SafeToRetry(code Code) bool {
	return code != CodeConfirmationTimeout
}
