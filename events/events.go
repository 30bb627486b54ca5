// Package events records security-relevant occurrences (auth failures,
// rate-limit hits, adversarial input, server errors) for later inspection.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies a class of security event.
type Type string

const (
	TypeNetworkError        Type = "network_error"
	TypeAuthFailure         Type = "authentication_failure"
	TypePermissionDenied    Type = "permission_denied"
	TypeRateLimit           Type = "rate_limit"
	TypeAdversarialRejected Type = "adversarial_input_rejected"
	TypeServerError         Type = "server_error"
	TypeSuspiciousInput     Type = "suspicious_input_detected"
	TypeInvalidToken        Type = "invalid_token"
)

// Severity grades an event for the consuming dashboard.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// severityFor infers a severity from the event type.
func severityFor(t Type) Severity {
	switch t {
	case TypeAuthFailure, TypeSuspiciousInput, TypeAdversarialRejected, TypeInvalidToken:
		return SeverityHigh
	case TypePermissionDenied, TypeRateLimit, TypeServerError:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Event is a single append-only security event.
type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Severity  Severity       `json:"severity"`
	Detail    map[string]any `json:"detail,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Detail is free-form context attached to an event.
type Detail map[string]any

// Recorder receives security events as they occur.
type Recorder interface {
	Record(t Type, detail Detail)
}

// New builds an event with an inferred severity and a fresh ID.
func New(t Type, detail Detail, at time.Time) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Severity:  severityFor(t),
		Detail:    detail,
		Timestamp: at,
	}
}
