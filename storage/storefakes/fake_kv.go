package storefakes

import (
	"sync"

	"github.com/ztrustlabs/go-inspector-client/storage"
)

var _ storage.KV = (*FakeKV)(nil)

// FakeKV is an in-memory KV for tests. SetErr/GetErr, when non-nil, are
// returned by the corresponding operations to exercise failure paths.
type FakeKV struct {
	mu     sync.Mutex
	values map[string]string

	SetErr error
	GetErr error
}

func NewFakeKV() *FakeKV {
	return &FakeKV{values: make(map[string]string)}
}

func (f *FakeKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return "", false, f.GetErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FakeKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.values[key] = value
	return nil
}

func (f *FakeKV) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

// Len returns the number of stored keys.
func (f *FakeKV) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.values)
}
