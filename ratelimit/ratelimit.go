// Package ratelimit enforces a minimum spacing between submissions to
// sensitive endpoints. State lives in durable storage so a restart cannot
// bypass the floor.
package ratelimit

import (
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ztrustlabs/go-inspector-client/apierr"
	"github.com/ztrustlabs/go-inspector-client/storage"
)

// DefaultFloor is the minimum time between accepted submissions.
const DefaultFloor = 1000 * time.Millisecond

const keyPrefix = "last_request_"

// Limiter is a fixed-window throttle keyed by endpoint name.
type Limiter struct {
	kv      storage.KV
	floor   time.Duration
	nowTime func() time.Time
	mu      sync.Mutex
}

// Option modifies a Limiter.
type Option func(*Limiter)

// WithFloor overrides the minimum inter-request spacing.
func WithFloor(floor time.Duration) Option {
	return func(l *Limiter) {
		l.floor = floor
	}
}

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(l *Limiter) {
		l.nowTime = nowFunc
	}
}

// New creates a Limiter over the given durable KV.
func New(kv storage.KV, options ...Option) *Limiter {
	l := &Limiter{
		kv:      kv,
		floor:   DefaultFloor,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Allow checks the elapsed time since the last accepted submission for the
// endpoint. Inside the floor it returns a rate-limit error and leaves the
// marker untouched. Otherwise the marker is updated immediately: the slot
// is consumed even if the request later fails.
func (l *Limiter) Allow(endpoint string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowTime()
	raw, ok, err := l.kv.Get(keyPrefix + endpoint)
	if err != nil {
		return errors.Wrap(err, "[Limiter.Allow] read marker")
	}
	if ok {
		if lastMillis, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			last := time.UnixMilli(lastMillis)
			if elapsed := now.Sub(last); elapsed < l.floor {
				return apierr.RateLimited("please wait before submitting another request", l.floor-elapsed)
			}
		}
	}
	if err := l.kv.Set(keyPrefix+endpoint, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		return errors.Wrap(err, "[Limiter.Allow] write marker")
	}
	return nil
}

// Reset removes the endpoint's marker, releasing its slot.
func (l *Limiter) Reset(endpoint string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return errors.Wrap(l.kv.Delete(keyPrefix+endpoint), "[Limiter.Reset] delete marker")
}
