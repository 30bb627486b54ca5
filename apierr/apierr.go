// Package apierr defines the error taxonomy shared by the inspector client.
// Every failure surfaced by the client carries a Kind discriminant so that
// callers can branch exhaustively instead of probing error shapes.
package apierr

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a client failure.
type Kind string

const (
	// KindValidation covers malformed local input (email, password, OTP),
	// raised before any network call.
	KindValidation Kind = "validation"

	// KindInputRejected covers payloads matching a local adversarial
	// signature, raised before any network call.
	KindInputRejected Kind = "input_rejected"

	// KindRateLimit covers the local throttle and server 429 responses.
	KindRateLimit Kind = "rate_limit"

	// KindNetwork covers transport failures where no response was received.
	KindNetwork Kind = "network"

	// KindAuthentication covers 401 responses.
	KindAuthentication Kind = "authentication"

	// KindPermission covers 403 responses.
	KindPermission Kind = "permission"

	// KindServer covers 500 responses.
	KindServer Kind = "server"

	// KindServerValidation passes any other non-2xx server error body
	// through verbatim.
	KindServerValidation Kind = "server_validation"

	// KindTokenIssuance covers a verify-login that succeeded at the server
	// but produced no durable, usable session on this side.
	KindTokenIssuance Kind = "token_issuance"
)

// Error is the single error variant returned by the client.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int           // HTTP status for server-driven kinds, 0 otherwise
	RetryAfter time.Duration // populated for KindRateLimit
	Body       []byte        // raw server body for KindServerValidation
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf returns a KindValidation error.
func Validationf(format string, args ...any) *Error {
	return Newf(KindValidation, format, args...)
}

// RateLimited returns a KindRateLimit error carrying the retry delay.
func RateLimited(message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimit, Message: message, RetryAfter: retryAfter}
}

// KindOf returns the Kind of err, or "" if err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err (or any wrapped error) is an *Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// RetryAfter returns the retry delay carried by a rate-limit error, or 0.
func RetryAfter(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
