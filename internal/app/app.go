// Package app wires the inspector client's dependency graph and owns the
// background validator's lifecycle.
package app

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ztrustlabs/go-inspector-client/auth"
	"github.com/ztrustlabs/go-inspector-client/client"
	"github.com/ztrustlabs/go-inspector-client/events"
	"github.com/ztrustlabs/go-inspector-client/guard"
	"github.com/ztrustlabs/go-inspector-client/internal/config"
	"github.com/ztrustlabs/go-inspector-client/prefs"
	"github.com/ztrustlabs/go-inspector-client/ratelimit"
	"github.com/ztrustlabs/go-inspector-client/session"
	"github.com/ztrustlabs/go-inspector-client/storage"
)

// App bundles the constructed services for callers.
type App struct {
	Sessions  *session.Store
	Validator *session.Validator
	Recorder  *events.MemoryRecorder
	Client    *client.Client
	Auth      *auth.Service
	Prefs     *prefs.Prefs
}

// New constructs the dependency graph from cfg. A passphrase switches
// persisted state to the sealed store.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	var kv storage.KV
	var err error
	if passphrase := cfg.GetPassphrase(); passphrase != "" {
		kv, err = storage.NewSealedStore(cfg.GetDataDir(), passphrase)
	} else {
		kv, err = storage.NewFileStore(cfg.GetDataDir())
	}
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] storage")
	}

	recorder := events.NewMemoryRecorder()
	logged := events.NewLogRecorder(recorder, log)

	sessions := session.NewStore(kv, session.WithLogger(log))
	limiter := ratelimit.New(kv)

	apiClient, err := client.New(cfg.GetBaseURL(), client.Deps{
		Sessions: sessions,
		Limiter:  limiter,
		Guard:    guard.New(logged),
		Recorder: logged,
	},
		client.WithHTTPClient(&http.Client{Timeout: cfg.GetRequestTimeout()}),
		client.WithLogger(log),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] client")
	}

	authService, err := auth.NewService(apiClient, sessions, limiter, auth.WithLogger(log))
	if err != nil {
		return nil, errors.Wrap(err, "[app.New] auth service")
	}

	return &App{
		Sessions:  sessions,
		Validator: session.NewValidator(sessions, logged, session.WithValidatorLogger(log)),
		Recorder:  recorder,
		Client:    apiClient,
		Auth:      authService,
		Prefs:     prefs.New(kv),
	}, nil
}

// Start launches the background token validator.
func (a *App) Start() {
	a.Validator.Start()
}

// Stop halts background work deterministically.
func (a *App) Stop() {
	a.Validator.Stop()
}
