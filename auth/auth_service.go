// Package auth orchestrates the two-phase OTP login and signup protocols.
// Credentials are held in memory only for the duration of a single
// initiate/verify call pair; a session is installed only after its
// durability has been confirmed by reading the token back.
package auth

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ztrustlabs/go-inspector-client/apierr"
	"github.com/ztrustlabs/go-inspector-client/client"
	"github.com/ztrustlabs/go-inspector-client/ratelimit"
	"github.com/ztrustlabs/go-inspector-client/session"
)

const (
	loginInitiatePath    = "/login/initiate"
	loginVerifyPath      = "/login/verify"
	registerInitiatePath = "/register/initiate"
	registerVerifyPath   = "/register/verify"
)

// Doer sends a request through the hardened pipeline.
type Doer interface {
	Do(ctx context.Context, method, path string, body map[string]any, out any) error
}

// Ack is the service's acknowledgment of an initiate step.
type Ack struct {
	Message string `json:"message"`
}

// LoginResult is the outcome of a successful verify-login: the issued
// token, the user's role, and confirmation that a durable session exists.
type LoginResult struct {
	Token         string `json:"token"`
	Role          string `json:"role"`
	Authenticated bool   `json:"-"`
}

// Service drives the login and signup state machines.
type Service struct {
	doer     Doer
	sessions *session.Store
	limiter  *ratelimit.Limiter
	log      zerolog.Logger
}

// ServiceOption modifies a Service.
type ServiceOption func(*Service)

// WithLogger sets the service's logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates an auth service over the given pipeline and stores.
func NewService(doer Doer, sessions *session.Store, limiter *ratelimit.Limiter, options ...ServiceOption) (*Service, error) {
	if doer == nil {
		return nil, errors.New("[NewService] doer is required")
	}
	if sessions == nil {
		return nil, errors.New("[NewService] sessions store is required")
	}
	if limiter == nil {
		return nil, errors.New("[NewService] limiter is required")
	}

	s := &Service{
		doer:     doer,
		sessions: sessions,
		limiter:  limiter,
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// InitiateLogin submits credentials and asks the service to send an OTP.
// No session state changes.
func (s *Service) InitiateLogin(ctx context.Context, email, password string) (*Ack, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateLoginPassword(password); err != nil {
		return nil, err
	}

	var ack Ack
	if err := s.doer.Do(ctx, http.MethodPost, loginInitiatePath, map[string]any{
		"email":    email,
		"password": password,
	}, &ack); err != nil {
		return nil, errors.Wrap(err, "[Service.InitiateLogin]")
	}
	return &ack, nil
}

// VerifyLogin exchanges the OTP for a token and installs the session. It
// reports success only after the token has been read back from durable
// storage; a session the next request cannot use is a failure.
func (s *Service) VerifyLogin(ctx context.Context, email, otp string) (*LoginResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateOTP(otp); err != nil {
		return nil, err
	}

	var result LoginResult
	if err := s.doer.Do(ctx, http.MethodPost, loginVerifyPath, map[string]any{
		"email": email,
		"otp":   otp,
	}, &result); err != nil {
		return nil, errors.Wrap(err, "[Service.VerifyLogin]")
	}

	if result.Token == "" {
		return nil, apierr.New(apierr.KindTokenIssuance, "no authentication token received from server")
	}
	if err := s.sessions.SetToken(result.Token); err != nil {
		s.log.Error().Err(err).Msg("failed to persist authentication token")
		return nil, apierr.New(apierr.KindTokenIssuance, "failed to set authentication token")
	}
	stored, ok := s.sessions.Token()
	if !ok || stored != result.Token {
		return nil, apierr.New(apierr.KindTokenIssuance, "authentication token verification failed")
	}

	result.Authenticated = true
	s.log.Info().Str("role", result.Role).Msg("login verified")
	return &result, nil
}

// InitiateSignup starts account creation. The password strength policy is
// enforced locally before any network call.
func (s *Service) InitiateSignup(ctx context.Context, email, password string) (*Ack, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	var ack Ack
	if err := s.doer.Do(ctx, http.MethodPost, registerInitiatePath, map[string]any{
		"email":    email,
		"password": password,
	}, &ack); err != nil {
		return nil, errors.Wrap(err, "[Service.InitiateSignup]")
	}
	return &ack, nil
}

// VerifySignup completes account creation with the emailed OTP.
func (s *Service) VerifySignup(ctx context.Context, email, password, otp string) (*Ack, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateOTP(otp); err != nil {
		return nil, err
	}

	var ack Ack
	if err := s.doer.Do(ctx, http.MethodPost, registerVerifyPath, map[string]any{
		"email":    email,
		"password": password,
		"otp":      otp,
	}, &ack); err != nil {
		return nil, errors.Wrap(err, "[Service.VerifySignup]")
	}
	return &ack, nil
}

// Logout clears the session and the classification rate-limit marker. It
// is entirely local and succeeds even when the remote service is
// unreachable.
func (s *Service) Logout() error {
	if err := s.limiter.Reset(client.EndpointCheckSpam); err != nil {
		return errors.Wrap(err, "[Service.Logout] reset rate limit")
	}
	if err := s.sessions.Clear(); err != nil {
		return errors.Wrap(err, "[Service.Logout] clear session")
	}
	s.log.Info().Msg("logged out")
	return nil
}
