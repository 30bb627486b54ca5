package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ztrustlabs/go-inspector-client/storage"
)

const (
	keyToken       = "token"
	keyTokenIssued = "token_issued_at"
	keyTokenExpiry = "token_expires_at"
)

// Store is the sole writer and reader of persisted auth state.
type Store struct {
	kv      storage.KV
	ttl     time.Duration
	nowTime func() time.Time
	log     zerolog.Logger
	mu      sync.Mutex
}

// StoreOption modifies a Store.
type StoreOption func(*Store)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithLogger sets the store's logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a session store over the given durable KV.
func NewStore(kv storage.KV, options ...StoreOption) *Store {
	s := &Store{
		kv:      kv,
		ttl:     DefaultTTL,
		nowTime: time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// SetToken persists token and stamps its expiry at now+TTL. An empty token
// is equivalent to Clear.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowTime()
	if err := s.kv.Set(keyToken, token); err != nil {
		return errors.Wrap(err, "[Store.SetToken] persist token")
	}
	if err := s.kv.Set(keyTokenIssued, now.UTC().Format(time.RFC3339Nano)); err != nil {
		return errors.Wrap(err, "[Store.SetToken] persist issued-at")
	}
	if err := s.kv.Set(keyTokenExpiry, now.Add(s.ttl).UTC().Format(time.RFC3339Nano)); err != nil {
		return errors.Wrap(err, "[Store.SetToken] persist expiry")
	}
	return nil
}

// Token returns the current token if it has not expired. Expiry is enforced
// on read: an expired token is cleared before reporting absence, so callers
// never see a stale credential.
func (s *Store) Token() (string, bool) {
	sess, ok := s.Current()
	if !ok {
		return "", false
	}
	return sess.Token, true
}

// Current returns the full session record if a valid one is persisted.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.kv.Get(keyToken)
	if err != nil {
		s.log.Error().Err(err).Msg("session store read failed")
		return Session{}, false
	}
	if !ok || token == "" {
		return Session{}, false
	}

	expRaw, ok, err := s.kv.Get(keyTokenExpiry)
	if err != nil || !ok {
		s.clearLocked()
		return Session{}, false
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, expRaw)
	if err != nil {
		s.clearLocked()
		return Session{}, false
	}
	if !s.nowTime().Before(expiresAt) {
		s.clearLocked()
		return Session{}, false
	}

	var issuedAt time.Time
	if issuedRaw, ok, err := s.kv.Get(keyTokenIssued); err == nil && ok {
		issuedAt, _ = time.Parse(time.RFC3339Nano, issuedRaw)
	}

	return Session{Token: token, IssuedAt: issuedAt, ExpiresAt: expiresAt}, true
}

// Clear removes the token and its expiry. Repeated calls are no-ops.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Store) clearLocked() error {
	if err := s.kv.Delete(keyToken); err != nil {
		return errors.Wrap(err, "[Store.Clear] delete token")
	}
	if err := s.kv.Delete(keyTokenIssued); err != nil {
		return errors.Wrap(err, "[Store.Clear] delete issued-at")
	}
	if err := s.kv.Delete(keyTokenExpiry); err != nil {
		return errors.Wrap(err, "[Store.Clear] delete expiry")
	}
	return nil
}
