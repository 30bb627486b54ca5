// Package session owns the bearer-token lifecycle: a durable store with
// lazy expiry on read, and a background validator that proactively clears
// tokens whose claims have expired.
package session

import "time"

// Session is the persisted authenticated state: a bearer token and the
// window in which it is valid.
type Session struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// DefaultTTL is how long a token remains usable after a successful
// verify-login, matching the service's own session window.
const DefaultTTL = 8 * time.Hour
