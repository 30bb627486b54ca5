// Package client implements the hardened request pipeline for the
// inspector service. Every outbound body is sanitized before it leaves the
// process, the bearer token is attached from the session store, and every
// failure response is classified into the apierr taxonomy with its side
// effects (session clearing, security events) applied before the error is
// returned.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ztrustlabs/go-inspector-client/apierr"
	"github.com/ztrustlabs/go-inspector-client/events"
	"github.com/ztrustlabs/go-inspector-client/guard"
	"github.com/ztrustlabs/go-inspector-client/ratelimit"
	"github.com/ztrustlabs/go-inspector-client/session"
)

const (
	// DefaultTimeout bounds every request; in-flight requests are not
	// otherwise cancellable.
	DefaultTimeout = 10 * time.Second

	defaultRetryAfter = 60 * time.Second
	maxErrorBodySize  = 1 << 20
)

// Deps holds the pipeline's collaborators.
type Deps struct {
	Sessions *session.Store
	Limiter  *ratelimit.Limiter
	Guard    *guard.Guard
	Recorder events.Recorder
}

// Client is the inspector API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	deps       Deps
	log        zerolog.Logger
}

// Option modifies a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for
// testing; the default carries the 10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client for the service at baseURL.
func New(baseURL string, deps Deps, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[client.New] baseURL is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("[client.New] Sessions store is required")
	}
	if deps.Limiter == nil {
		return nil, errors.New("[client.New] Limiter is required")
	}
	if deps.Guard == nil {
		return nil, errors.New("[client.New] Guard is required")
	}
	if deps.Recorder == nil {
		return nil, errors.New("[client.New] Recorder is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		deps:       deps,
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Do sends a request through the full pipeline. body, when non-nil, is a
// JSON field map; its string fields are sanitized and, for the
// classification endpoint, the payload field is truncated to the server's
// limit. A bearer token is attached when the session store holds one.
func (c *Client) Do(ctx context.Context, method, path string, body map[string]any, out any) error {
	var reqBody io.Reader
	if body != nil {
		sanitized := sanitizeFields(body)
		if path == checkSpamPath {
			truncateMailField(sanitized)
		}
		data, err := json.Marshal(sanitized)
		if err != nil {
			return errors.Wrap(err, "[Client.Do] marshal body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "[Client.Do] build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.deps.Sessions.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.deps.Recorder.Record(events.TypeNetworkError, events.Detail{
			"method": method,
			"path":   path,
		})
		return apierr.New(apierr.KindNetwork, "network error, please check your connection")
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return c.classify(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "[Client.Do] decode response")
		}
	}
	return nil
}

// classify maps a failure response onto the error taxonomy, applying side
// effects first. The error is always returned to the caller: the pipeline
// never swallows a classification, and it never retries.
func (c *Client) classify(resp *http.Response) error {
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if readErr != nil {
		raw = nil
	}
	message := serverMessage(raw)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.deps.Recorder.Record(events.TypeAuthFailure, events.Detail{"message": message})
		// Invalid or expired credential: drop it regardless of what the
		// caller does with the error.
		if err := c.deps.Sessions.Clear(); err != nil {
			c.log.Error().Err(err).Msg("failed to clear session after 401")
		}
		return &apierr.Error{Kind: apierr.KindAuthentication, Message: message, StatusCode: resp.StatusCode}

	case http.StatusForbidden:
		c.deps.Recorder.Record(events.TypePermissionDenied, events.Detail{"message": message})
		return &apierr.Error{Kind: apierr.KindPermission, Message: message, StatusCode: resp.StatusCode}

	case http.StatusTooManyRequests:
		c.deps.Recorder.Record(events.TypeRateLimit, events.Detail{"message": message})
		return &apierr.Error{
			Kind:       apierr.KindRateLimit,
			Message:    "rate limit exceeded, please try again in a minute",
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfterFrom(resp.Header),
		}

	case http.StatusInternalServerError:
		c.deps.Recorder.Record(events.TypeServerError, events.Detail{"message": message})
		return &apierr.Error{Kind: apierr.KindServer, Message: message, StatusCode: resp.StatusCode}

	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(message), "adversarial") {
			c.deps.Recorder.Record(events.TypeAdversarialRejected, events.Detail{"message": message})
		}
	}

	// Everything else passes the server's body through unchanged.
	return &apierr.Error{
		Kind:       apierr.KindServerValidation,
		Message:    message,
		StatusCode: resp.StatusCode,
		Body:       raw,
	}
}

func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		return body.Message
	}
	return "an error occurred"
}

func retryAfterFrom(h http.Header) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryAfter
}
