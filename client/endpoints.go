package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ztrustlabs/go-inspector-client/apierr"
)

const (
	checkSpamPath      = "/check_spam"
	logsPath           = "/logs"
	securityEventsPath = "/security-events"

	// EndpointCheckSpam is the rate-limiter key for the classification
	// endpoint; logout resets it alongside the session.
	EndpointCheckSpam = "check_spam"

	// Above this size processing may be slow; the server still accepts it.
	largeMailWarnLength = 10000

	lowConfidenceFloor = 0.6
)

// CheckSpamResponse is the classification verdict.
type CheckSpamResponse struct {
	Result          string  `json:"result"`
	Confidence      float64 `json:"confidence"`
	ConfidenceLevel string  `json:"confidence_level,omitempty"`
	Warning         string  `json:"warning,omitempty"`
}

// CheckSpam submits content for classification. The adversarial guard and
// the local rate limiter run before any network traffic; either can reject
// the submission without a request being sent.
func (c *Client) CheckSpam(ctx context.Context, mail string) (*CheckSpamResponse, error) {
	if strings.TrimSpace(mail) == "" {
		return nil, apierr.Validationf("email content is required")
	}
	if err := c.deps.Guard.Scan(mail); err != nil {
		return nil, err
	}
	if err := c.deps.Limiter.Allow(EndpointCheckSpam); err != nil {
		return nil, err
	}
	if len(mail) > largeMailWarnLength {
		c.log.Warn().Int("length", len(mail)).Msg("email content is very large, processing may take longer")
	}

	var out CheckSpamResponse
	if err := c.Do(ctx, http.MethodPost, checkSpamPath, map[string]any{"mail": mail}, &out); err != nil {
		return nil, fmt.Errorf("client.CheckSpam: %w", err)
	}
	if out.Confidence < lowConfidenceFloor {
		c.log.Warn().Float64("confidence", out.Confidence).Str("result", out.Result).
			Msg("model returned low confidence prediction")
	}
	return &out, nil
}

// LogEntry is one prediction log record.
type LogEntry struct {
	ID              string  `json:"_id"`
	User            string  `json:"user,omitempty"`
	EmailSubject    string  `json:"emailSubject,omitempty"`
	Result          string  `json:"result"`
	Confidence      float64 `json:"confidence"`
	ConfidenceLevel string  `json:"confidence_level,omitempty"`
	Timestamp       string  `json:"timestamp,omitempty"`
}

// LogsResponse is a page of prediction logs.
type LogsResponse struct {
	Logs    []LogEntry `json:"logs"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	Total   int        `json:"total"`
}

// Logs fetches a page of prediction logs (admin only).
func (c *Client) Logs(ctx context.Context, page, perPage int) (*LogsResponse, error) {
	var out LogsResponse
	if err := c.Do(ctx, http.MethodGet, logsPath+"?"+pageQuery(page, perPage), nil, &out); err != nil {
		return nil, fmt.Errorf("client.Logs: %w", err)
	}
	return &out, nil
}

// RemoteEvent is one security event as recorded by the service.
type RemoteEvent struct {
	ID        string `json:"_id"`
	EventType string `json:"event_type"`
	Details   string `json:"details,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Severity  string `json:"severity,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SecurityEventsResponse is a page of server-side security events.
type SecurityEventsResponse struct {
	Events  []RemoteEvent `json:"events"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Total   int           `json:"total"`
}

// SecurityEvents fetches a page of the service's security events (admin
// only).
func (c *Client) SecurityEvents(ctx context.Context, page, perPage int) (*SecurityEventsResponse, error) {
	var out SecurityEventsResponse
	if err := c.Do(ctx, http.MethodGet, securityEventsPath+"?"+pageQuery(page, perPage), nil, &out); err != nil {
		return nil, fmt.Errorf("client.SecurityEvents: %w", err)
	}
	return &out, nil
}

func pageQuery(page, perPage int) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	return params.Encode()
}
