package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MemoryRecorder keeps events in memory for the consuming dashboard.
type MemoryRecorder struct {
	mu      sync.Mutex
	events  []Event
	nowTime func() time.Time
}

var _ Recorder = (*MemoryRecorder)(nil)

// MemoryRecorderOption modifies a MemoryRecorder.
type MemoryRecorderOption func(*MemoryRecorder)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(nowFunc func() time.Time) MemoryRecorderOption {
	return func(r *MemoryRecorder) {
		r.nowTime = nowFunc
	}
}

func NewMemoryRecorder(options ...MemoryRecorderOption) *MemoryRecorder {
	r := &MemoryRecorder{nowTime: time.Now}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *MemoryRecorder) Record(t Type, detail Detail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, New(t, detail, r.nowTime()))
}

// Events returns a copy of all recorded events in order.
func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// CountOf returns the number of recorded events of the given type.
func (r *MemoryRecorder) CountOf(t Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// LogRecorder decorates a Recorder with zerolog warnings so every security
// event also lands in the structured log.
type LogRecorder struct {
	next Recorder
	log  zerolog.Logger
}

var _ Recorder = (*LogRecorder)(nil)

func NewLogRecorder(next Recorder, log zerolog.Logger) *LogRecorder {
	return &LogRecorder{next: next, log: log}
}

func (r *LogRecorder) Record(t Type, detail Detail) {
	r.log.Warn().Str("event", string(t)).Fields(map[string]any(detail)).Msg("security event")
	if r.next != nil {
		r.next.Record(t, detail)
	}
}
