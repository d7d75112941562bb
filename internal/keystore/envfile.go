package keystore

import (
	"fmt"
	"os"

	"github.com/envseal/envseal/internal/dotenv"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/utils"
)

// EnvFile stores the secret key as a single reserved assignment in an
// env-format file, so the stored key can be inspected with any dotenv tool.
// The file is written with 0600 permissions via an atomic replace.
type EnvFile struct {
	Path string
}

// NewEnvFile returns a store backed by the file at path.
func NewEnvFile(path string) *EnvFile {
	return &EnvFile{Path: path}
}

// Load reads the secret key from the store file.
func (s *EnvFile) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: no key stored at %s", eserrors.ErrMissingSecretKey, s.Path)
		}
		return "", fmt.Errorf("failed to read key store: %w", err)
	}

	for _, raw := range dotenv.SplitLines(string(data)) {
		line := dotenv.Parse(raw)
		if line.IsReserved() && line.Value != "" {
			return line.Value, nil
		}
	}

	return "", fmt.Errorf("%w: %s does not contain %s", eserrors.ErrMissingSecretKey, s.Path, dotenv.ReservedLabel)
}

// Save writes the secret key, replacing any existing one.
func (s *EnvFile) Save(secret string) error {
	if secret == "" {
		return fmt.Errorf("%w: secret key must not be empty", eserrors.ErrInvalidInput)
	}

	content := dotenv.JoinLines([]string{dotenv.ReservedLine(secret)})
	if err := utils.WriteFileAtomic(s.Path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write key store: %w", err)
	}
	return nil
}
