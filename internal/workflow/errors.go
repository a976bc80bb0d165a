// Package workflow holds the contract lifecycle rules: status transition
// guards, the signing and consent completion rules, and the typed domain
// errors they return. Everything here is pure so the same checks can run
// before a request is sent and again inside the service that owns the state.
package workflow

import (
	"errors"
	"fmt"
)

// Code is a machine-readable domain error code.
type Code string

const (
	CodeValidation         Code = "VALIDATION_FAILED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidStatus      Code = "CONTRACT_INVALID_STATUS"
	CodePartyNotFound      Code = "PARTY_NOT_FOUND"
	CodeAlreadySigned      Code = "PARTY_ALREADY_SIGNED"
	CodeOTPInvalid         Code = "OTP_INVALID"
	CodeTerminationPending Code = "CONTRACT_TERMINATION_PENDING"
	CodeTerminationClosed  Code = "TERMINATION_REQUEST_CLOSED"
	CodeConsentSigned      Code = "CONSENT_ALREADY_SIGNED"
	CodeExtensionPending   Code = "CONTRACT_EXTENSION_PENDING"
	CodeNotExpirable       Code = "CONTRACT_NOT_EXPIRABLE"
	CodeNotEntitled        Code = "PARTY_NOT_ENTITLED"
)

// Error is a recoverable domain error. Nothing in the workflow is fatal:
// callers retry or re-fetch the read model.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errf builds a domain error with a formatted message.
func Errf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the domain code from an error chain, or "" if the error
// is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
