package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/awnumar/memguard"

	"github.com/envseal/envseal/internal/crypto"
	"github.com/envseal/envseal/internal/dotenv"
	eserrors "github.com/envseal/envseal/internal/errors"
)

// HeaderMarker prefixes the first line of every encrypted file. The token it
// carries wraps the reserved secret key assignment under the passphrase key.
const HeaderMarker = "SECRET_KEY="

// EncryptFile seals plaintext env lines into the encrypted file format.
//
// Line 0 of the output is the header: HeaderMarker followed by a token that
// wraps "ENV_SECURE_KEY=<secretKey>" under a key derived from the passphrase.
// Every input line follows in order: blank and comment lines pass through
// unchanged, everything else is sealed under a key derived from the secret
// key. The per-line key is derived once per call; derivation is deterministic
// so this is observationally identical to deriving per line.
//
// Returns ErrMissingSecretKey if secretKey is empty, ErrMissingPassphrase if
// passphrase is empty, ErrEmptyInput if there are no lines.
func EncryptFile(plainLines []string, secretKey, passphrase string) ([]string, error) {
	if secretKey == "" {
		return nil, eserrors.ErrMissingSecretKey
	}
	if passphrase == "" {
		return nil, eserrors.ErrMissingPassphrase
	}
	if len(plainLines) == 0 {
		return nil, eserrors.ErrEmptyInput
	}

	wrapKey, err := crypto.DeriveKey(passphrase)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(wrapKey)

	headerToken, err := crypto.Seal(dotenv.ReservedLine(secretKey), wrapKey)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap secret key: %w", err)
	}

	lineKey, err := crypto.DeriveKey(secretKey)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(lineKey)

	out := make([]string, 0, len(plainLines)+1)
	out = append(out, HeaderMarker+headerToken)

	for _, raw := range plainLines {
		if dotenv.Parse(raw).Passthrough() {
			out = append(out, raw)
			continue
		}
		token, err := crypto.Seal(raw, lineKey)
		if err != nil {
			return nil, err
		}
		out = append(out, token)
	}

	return out, nil
}

// DecryptFile reverses EncryptFile, returning the original plaintext lines
// with the header excluded.
//
// Returns ErrMissingPassphrase if passphrase is empty. Returns
// ErrInvalidFormat if the input is empty, the first line lacks the header
// marker, the header token itself is unparseable, or the wrapped content does
// not match the reserved label pattern. Cipher failures propagate:
// ErrDecryptionFailed for a wrong passphrase or corrupted blocks,
// ErrMalformedToken for body lines that are not tokens.
func DecryptFile(encLines []string, passphrase string) ([]string, error) {
	if passphrase == "" {
		return nil, eserrors.ErrMissingPassphrase
	}
	if len(encLines) == 0 {
		return nil, fmt.Errorf("%w: encrypted content is empty", eserrors.ErrInvalidFormat)
	}
	if !strings.HasPrefix(encLines[0], HeaderMarker) {
		return nil, fmt.Errorf("%w: missing %q header", eserrors.ErrInvalidFormat, HeaderMarker)
	}

	wrapKey, err := crypto.DeriveKey(passphrase)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(wrapKey)

	headerPlain, err := crypto.Open(strings.TrimPrefix(encLines[0], HeaderMarker), wrapKey)
	if err != nil {
		// A header that cannot even be parsed is a framing problem, not a
		// passphrase problem.
		if errors.Is(err, eserrors.ErrMalformedToken) {
			return nil, fmt.Errorf("%w: header token: %v", eserrors.ErrInvalidFormat, err)
		}
		return nil, err
	}

	header := dotenv.Parse(headerPlain)
	if !header.IsReserved() || header.Value == "" {
		return nil, fmt.Errorf("%w: header does not wrap %s", eserrors.ErrInvalidFormat, dotenv.ReservedLabel)
	}
	secretKey := header.Value

	lineKey, err := crypto.DeriveKey(secretKey)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(lineKey)

	body := make([]string, 0, len(encLines)-1)
	for _, raw := range encLines[1:] {
		if dotenv.Parse(raw).Passthrough() {
			body = append(body, raw)
			continue
		}
		plain, err := crypto.Open(raw, lineKey)
		if err != nil {
			return nil, err
		}
		body = append(body, plain)
	}

	return body, nil
}

// SecretKeyFromLines scans decrypted or plaintext lines for the reserved
// assignment and returns its value. The second result reports presence.
func SecretKeyFromLines(lines []string) (string, bool) {
	for _, raw := range lines {
		line := dotenv.Parse(raw)
		if line.IsReserved() && line.Value != "" {
			return line.Value, true
		}
	}
	return "", false
}
