package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/scrypt"

	eserrors "github.com/envseal/envseal/internal/errors"
)

// KeySize is the length in bytes of every derived key.
const KeySize = 32

// scrypt cost parameters. Interactive-grade work factor; derivation runs at
// most twice per file operation.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// kdfSalt is deliberately fixed. Derivation must be deterministic without
// persisting a salt anywhere, because the same passphrase has to reproduce the
// same wrapping key on decrypt. The cost is losing per-deployment rainbow
// table resistance, which the format accepts.
var kdfSalt = []byte("envseal/kdf/v1")

// DeriveKey stretches a passphrase or secret key string into a fixed-length
// cipher key. Same input always yields the same key.
//
// Returns ErrInvalidInput if secret is empty.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: derivation input is empty", eserrors.ErrInvalidInput)
	}

	key, err := scrypt.Key([]byte(secret), kdfSalt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

// Fingerprint returns a short stable digest of a secret key, safe to show in
// output and audit logs. It reveals nothing useful about the key itself.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:6])
}
