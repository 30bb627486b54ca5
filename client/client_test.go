package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ztrustlabs/go-inspector-client/apierr"
	"github.com/ztrustlabs/go-inspector-client/client"
	"github.com/ztrustlabs/go-inspector-client/events"
	"github.com/ztrustlabs/go-inspector-client/guard"
	"github.com/ztrustlabs/go-inspector-client/ratelimit"
	"github.com/ztrustlabs/go-inspector-client/session"
	"github.com/ztrustlabs/go-inspector-client/storage/storefakes"
)

// fixture wires a client over fakes with a controllable clock.
type fixture struct {
	now      time.Time
	sessions *session.Store
	recorder *events.MemoryRecorder
	client   *client.Client
	kv       *storefakes.FakeKV
}

func newFixture(t *testing.T, baseURL string) *fixture {
	t.Helper()

	f := &fixture{
		now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		kv:  storefakes.NewFakeKV(),
	}
	clock := func() time.Time { return f.now }

	f.sessions = session.NewStore(f.kv, session.WithNowTime(clock))
	f.recorder = events.NewMemoryRecorder()

	c, err := client.New(baseURL, client.Deps{
		Sessions: f.sessions,
		Limiter:  ratelimit.New(f.kv, ratelimit.WithNowTime(clock)),
		Guard:    guard.New(f.recorder),
		Recorder: f.recorder,
	})
	require.NoError(t, err)
	f.client = c
	return f
}

func okJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestOutboundSanitization(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		okJSON(w, map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Do(context.Background(), http.MethodPost, "/login/initiate", map[string]any{
		"email":    `<script>x</script>hello`,
		"note":     `click me onclick="steal()" now`,
		"attempts": 3,
	}, nil)
	require.NoError(t, err)

	require.Equal(t, "hello", received["email"])
	require.Equal(t, "click me  now", received["note"])
	require.Equal(t, float64(3), received["attempts"])
}

func TestCheckSpamTruncatesOversizedPayload(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		okJSON(w, client.CheckSpamResponse{Result: "NOT SPAM", Confidence: 0.9})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	_, err := f.client.CheckSpam(context.Background(), strings.Repeat("a", client.MaxMailLength+500))
	require.NoError(t, err)

	mail, ok := received["mail"].(string)
	require.True(t, ok)
	require.Len(t, mail, client.MaxMailLength)
}

func TestAuthHeaderAttachedWhenTokenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		okJSON(w, map[string]string{"message": "ok"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)

	require.NoError(t, f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil))
	require.Empty(t, gotAuth)

	require.NoError(t, f.sessions.SetToken("tok-123"))
	require.NoError(t, f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil))
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestUnauthorizedClearsSessionEvenWhenCallerIgnoresError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		okJSON(w, map[string]string{"message": "Token has expired"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	require.NoError(t, f.sessions.SetToken("tok-123"))

	err := f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil)
	require.True(t, apierr.IsKind(err, apierr.KindAuthentication))

	_, ok := f.sessions.Token()
	require.False(t, ok)
	require.Equal(t, 1, f.recorder.CountOf(events.TypeAuthFailure))
}

func TestForbiddenClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		okJSON(w, map[string]string{"message": "Unauthorized"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil)
	require.True(t, apierr.IsKind(err, apierr.KindPermission))
	require.Equal(t, 1, f.recorder.CountOf(events.TypePermissionDenied))
}

func TestRateLimitResponseCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		okJSON(w, map[string]string{"message": "Rate limit exceeded. Please try again later."})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil)
	require.True(t, apierr.IsKind(err, apierr.KindRateLimit))
	require.Equal(t, 30*time.Second, apierr.RetryAfter(err))
	require.Equal(t, 1, f.recorder.CountOf(events.TypeRateLimit))
}

func TestRateLimitResponseDefaultsRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil)
	require.Equal(t, 60*time.Second, apierr.RetryAfter(err))
}

func TestServerErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		okJSON(w, map[string]string{"message": "Error processing email content"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil)
	require.True(t, apierr.IsKind(err, apierr.KindServer))
	require.Equal(t, 1, f.recorder.CountOf(events.TypeServerError))
}

func TestBadRequestWithAdversarialMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		okJSON(w, map[string]string{"message": "Potential adversarial input detected"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Do(context.Background(), http.MethodPost, "/check_spam", map[string]any{"mail": "x"}, nil)
	require.True(t, apierr.IsKind(err, apierr.KindServerValidation))
	require.Equal(t, 1, f.recorder.CountOf(events.TypeAdversarialRejected))
}

func TestOtherStatusPassesBodyThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		okJSON(w, map[string]string{"message": "User not found"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil)
	require.True(t, apierr.IsKind(err, apierr.KindServerValidation))

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "User not found", apiErr.Message)
	require.Contains(t, string(apiErr.Body), "User not found")
}

func TestNetworkFailureClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // nothing is listening

	f := newFixture(t, srv.URL)
	err := f.client.Do(context.Background(), http.MethodGet, "/logs", nil, nil)
	require.True(t, apierr.IsKind(err, apierr.KindNetwork))
	require.Equal(t, 1, f.recorder.CountOf(events.TypeNetworkError))
}

func TestCheckSpamRejectsEmptyContent(t *testing.T) {
	f := newFixture(t, "http://127.0.0.1:1")
	_, err := f.client.CheckSpam(context.Background(), "   ")
	require.True(t, apierr.IsKind(err, apierr.KindValidation))
}

func TestCheckSpamRejectsAdversarialInputLocally(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		okJSON(w, client.CheckSpamResponse{Result: "SPAM", Confidence: 0.99})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	_, err := f.client.CheckSpam(context.Background(), "<script>alert(1)</script>")

	require.True(t, apierr.IsKind(err, apierr.KindInputRejected))
	require.Equal(t, int64(0), requests.Load())
	require.Equal(t, 1, f.recorder.CountOf(events.TypeSuspiciousInput))
}

func TestCheckSpamLocalRateLimit(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		okJSON(w, client.CheckSpamResponse{Result: "NOT SPAM", Confidence: 0.95})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)

	_, err := f.client.CheckSpam(context.Background(), "first perfectly normal email")
	require.NoError(t, err)

	// 400ms later: rejected locally, no network call.
	f.now = f.now.Add(400 * time.Millisecond)
	_, err = f.client.CheckSpam(context.Background(), "second perfectly normal email")
	require.True(t, apierr.IsKind(err, apierr.KindRateLimit))
	require.Equal(t, int64(1), requests.Load())

	// Past the floor the endpoint opens again.
	f.now = f.now.Add(700 * time.Millisecond)
	_, err = f.client.CheckSpam(context.Background(), "third perfectly normal email")
	require.NoError(t, err)
	require.Equal(t, int64(2), requests.Load())
}

func TestCheckSpamResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/check_spam", r.URL.Path)
		okJSON(w, client.CheckSpamResponse{
			Result:          "SPAM",
			Confidence:      0.42,
			ConfidenceLevel: "low",
			Warning:         "Prediction has low confidence, please review carefully",
		})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	got, err := f.client.CheckSpam(context.Background(), "win a free prize now")
	require.NoError(t, err)
	require.Equal(t, "SPAM", got.Result)
	require.Equal(t, "low", got.ConfidenceLevel)
	require.NotEmpty(t, got.Warning)
}

func TestLogsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/logs", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "50", r.URL.Query().Get("per_page"))
		okJSON(w, client.LogsResponse{
			Logs:    []client.LogEntry{{Result: "SPAM", Confidence: 0.97}},
			Page:    2,
			PerPage: 50,
			Total:   120,
		})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	got, err := f.client.Logs(context.Background(), 2, 50)
	require.NoError(t, err)
	require.Len(t, got.Logs, 1)
	require.Equal(t, 120, got.Total)
}

func TestSecurityEventsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/security-events", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("page"))
		okJSON(w, client.SecurityEventsResponse{
			Events: []client.RemoteEvent{{EventType: "rate_limit_exceeded", Severity: "medium"}},
			Page:   1, PerPage: 100, Total: 1,
		})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	got, err := f.client.SecurityEvents(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Len(t, got.Events, 1)
	require.Equal(t, "rate_limit_exceeded", got.Events[0].EventType)
}

func TestNewValidatesDeps(t *testing.T) {
	_, err := client.New("", client.Deps{})
	require.Error(t, err)

	kv := storefakes.NewFakeKV()
	_, err = client.New("http://example.test", client.Deps{
		Sessions: session.NewStore(kv),
		Limiter:  ratelimit.New(kv),
		Guard:    guard.New(nil),
	})
	require.Error(t, err) // missing recorder
}
