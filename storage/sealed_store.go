package storage

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const sealedFile = "state.enc"

// scrypt envelope parameters, fixed for compatibility with existing state
func scryptParams() (N, r, p int) { return 1 << 15, 8, 1 }

type envelope struct {
	Salt  []byte
	Nonce []byte
	CT    []byte
}

// SealedStore persists key-value state as a single envelope-encrypted file.
// The key is derived from a passphrase with scrypt; the payload is sealed
// with ChaCha20-Poly1305. A bearer token at rest never touches disk in the
// clear.
type SealedStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

var _ KV = (*SealedStore)(nil)

// NewSealedStore creates a SealedStore rooted at dir, creating it if needed.
func NewSealedStore(dir, passphrase string) (*SealedStore, error) {
	if passphrase == "" {
		return nil, errors.New("[NewSealedStore] passphrase is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewSealedStore] MkdirAll")
	}
	return &SealedStore{dir: dir, passphrase: passphrase}, nil
}

func (s *SealedStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *SealedStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	m[key] = value
	return s.save(m)
}

func (s *SealedStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return s.save(m)
}

func (s *SealedStore) load() (map[string]string, error) {
	m := make(map[string]string)
	blob, err := os.ReadFile(filepath.Join(s.dir, sealedFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, errors.Wrap(err, "[SealedStore] ReadFile")
	}
	raw, err := s.open(blob)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "[SealedStore] Unmarshal")
	}
	return m, nil
}

func (s *SealedStore) save(m map[string]string) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "[SealedStore] Marshal")
	}
	blob, err := s.seal(raw)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, sealedFile), blob, 0o600); err != nil {
		return errors.Wrap(err, "[SealedStore] WriteFile")
	}
	return nil
}

func (s *SealedStore) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "[SealedStore] rand.Read")
	}
	aead, err := s.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "[SealedStore] rand.Read nonce")
	}
	ct := aead.Seal(nil, nonce, plaintext, salt)
	return json.Marshal(envelope{Salt: salt, Nonce: nonce, CT: ct})
}

func (s *SealedStore) open(blob []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, errors.Wrap(err, "[SealedStore] envelope Unmarshal")
	}
	aead, err := s.aead(env.Salt)
	if err != nil {
		return nil, err
	}
	raw, err := aead.Open(nil, env.Nonce, env.CT, env.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "[SealedStore] Open")
	}
	return raw, nil
}

func (s *SealedStore) aead(salt []byte) (cipher.AEAD, error) {
	N, r, p := scryptParams()
	key, err := scrypt.Key([]byte(s.passphrase), salt, N, r, p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "[SealedStore] scrypt.Key")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.Wrap(err, "[SealedStore] chacha20poly1305.New")
	}
	return aead, nil
}
