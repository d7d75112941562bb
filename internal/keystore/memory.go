package keystore

import (
	"fmt"
	"sync"

	eserrors "github.com/envseal/envseal/internal/errors"
)

// Memory holds the secret key in process memory. Used in tests.
type Memory struct {
	mu     sync.Mutex
	secret string
}

// Load returns the stored secret key.
func (s *Memory) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secret == "" {
		return "", fmt.Errorf("%w: no key stored", eserrors.ErrMissingSecretKey)
	}
	return s.secret, nil
}

// Save replaces the stored secret key.
func (s *Memory) Save(secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: secret key must not be empty", eserrors.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = secret
	return nil
}
