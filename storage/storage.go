// Package storage provides the durable key-value capability backing the
// session store, rate limiter and preference state. Implementations must
// survive process restarts; tests use the in-memory fake.
package storage

// KV is a minimal durable key-value capability.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
