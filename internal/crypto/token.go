package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	eserrors "github.com/envseal/envseal/internal/errors"
)

// TokenDelimiter separates the hex IV from the hex ciphertext in a token.
const TokenDelimiter = ":"

// Seal encrypts a single line of text under key and returns a self-contained
// token of the form hex(iv) + ":" + hex(ciphertext). A fresh random 16-byte IV
// is generated on every call, so sealing the same text twice produces
// different tokens.
//
// Returns ErrInvalidInput if plaintext is empty or the key is not KeySize bytes.
func Seal(plaintext string, key []byte) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: plaintext is empty", eserrors.ErrInvalidInput)
	}
	if len(key) != KeySize {
		return "", fmt.Errorf("%w: key must be %d bytes", eserrors.ErrInvalidInput, KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + TokenDelimiter + hex.EncodeToString(ciphertext), nil
}

// Open decrypts a token produced by Seal.
//
// Returns ErrMalformedToken if the token does not split into two non-empty
// hex parts with a 16-byte IV. Returns ErrDecryptionFailed if the ciphertext
// length or padding is invalid; a wrong key and corrupted ciphertext are
// indistinguishable, both surface as padding failures.
func Open(token string, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("%w: key must be %d bytes", eserrors.ErrInvalidInput, KeySize)
	}

	ivHex, ctHex, found := strings.Cut(token, TokenDelimiter)
	if !found || ivHex == "" || ctHex == "" {
		return "", fmt.Errorf("%w: expected iv:ciphertext", eserrors.ErrMalformedToken)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", fmt.Errorf("%w: iv is not valid hex", eserrors.ErrMalformedToken)
	}
	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: iv must be %d bytes", eserrors.ErrMalformedToken, aes.BlockSize)
	}

	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext is not valid hex", eserrors.ErrMalformedToken)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a whole number of blocks", eserrors.ErrDecryptionFailed)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to initialize cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", eserrors.ErrDecryptionFailed, err)
	}

	return string(unpadded), nil
}

// pad applies PKCS#7 padding up to the next block boundary. Input that is
// already block-aligned gains a full block of padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips and validates PKCS#7 padding.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}

	return data[:len(data)-n], nil
}
