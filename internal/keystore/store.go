package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GeneratedKeyBytes is the entropy of a generated secret key. The key itself
// is the hex encoding, so generated keys are 64 characters long.
const GeneratedKeyBytes = 32

// Store reads and writes the project secret key.
//
// Load returns ErrMissingSecretKey (via errors.Is) when no key has been
// stored yet. Save replaces any existing key without policy checks.
type Store interface {
	Load() (string, error)
	Save(secret string) error
}

// Generate returns a new random secret key as a hex string.
func Generate() (string, error) {
	buf := make([]byte, GeneratedKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
