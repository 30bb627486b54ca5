package session

import (
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ztrustlabs/go-inspector-client/events"
)

// DefaultCheckInterval is the validator's period.
const DefaultCheckInterval = 60 * time.Second

// Validator is a repeating background task that inspects the persisted
// token's structure and claims, clearing the session when the token is
// malformed or its exp claim has passed. It layers on top of the store's
// lazy expiry check: a token can look unexpired by the store's own stamp
// while its claims say otherwise.
type Validator struct {
	sessions *Store
	recorder events.Recorder
	interval time.Duration
	nowTime  func() time.Time
	log      zerolog.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// ValidatorOption modifies a Validator.
type ValidatorOption func(*Validator)

// WithCheckInterval overrides the validator period.
func WithCheckInterval(d time.Duration) ValidatorOption {
	return func(v *Validator) {
		v.interval = d
	}
}

// WithValidatorNowTime sets the clock (primarily for testing).
func WithValidatorNowTime(nowFunc func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.nowTime = nowFunc
	}
}

// WithValidatorLogger sets the validator's logger.
func WithValidatorLogger(log zerolog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.log = log
	}
}

// NewValidator creates a stopped validator over the given store.
func NewValidator(sessions *Store, recorder events.Recorder, options ...ValidatorOption) *Validator {
	v := &Validator{
		sessions: sessions,
		recorder: recorder,
		interval: DefaultCheckInterval,
		nowTime:  time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// Start launches the periodic check. Calling Start on a running validator
// is a no-op.
func (v *Validator) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stop != nil {
		return
	}
	v.stop = make(chan struct{})
	v.done = make(chan struct{})
	go v.run(v.stop, v.done)
}

// Stop halts the periodic check and waits for the loop to exit. Idempotent.
func (v *Validator) Stop() {
	v.mu.Lock()
	stop, done := v.stop, v.done
	v.stop, v.done = nil, nil
	v.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (v *Validator) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			v.Check()
		}
	}
}

// Check runs a single validation pass. Exposed so tests and callers can
// validate deterministically without waiting for the ticker.
func (v *Validator) Check() {
	token, ok := v.sessions.Token()
	if !ok {
		return
	}

	if strings.Count(token, ".") != 2 {
		v.log.Error().Msg("invalid token format detected")
		v.record("malformed token")
		v.clear()
		return
	}

	unverified, _, err := jwtlib.NewParser().ParseUnverified(token, jwtlib.MapClaims{})
	if err != nil {
		v.log.Error().Err(err).Msg("token validation error")
		v.record("undecodable claims")
		v.clear()
		return
	}

	claims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		v.log.Error().Msg("token claims have unexpected shape")
		v.record("unexpected claims shape")
		v.clear()
		return
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		// No exp claim to compare against; the store's own stamp governs.
		return
	}
	if v.nowTime().Unix() > int64(exp) {
		v.log.Info().Msg("token expired, logging out")
		v.clear()
	}
}

func (v *Validator) record(reason string) {
	if v.recorder != nil {
		v.recorder.Record(events.TypeInvalidToken, events.Detail{"reason": reason})
	}
}

func (v *Validator) clear() {
	if err := v.sessions.Clear(); err != nil {
		v.log.Error().Err(err).Msg("failed to clear session")
	}
}
