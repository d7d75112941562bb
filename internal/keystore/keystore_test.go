package keystore

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	eserrors "github.com/envseal/envseal/internal/errors"
)

func TestGenerate(t *testing.T) {
	key, err := Generate()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(key) != GeneratedKeyBytes*2 {
		t.Errorf("Expected %d characters, got: %d", GeneratedKeyBytes*2, len(key))
	}
	if _, err := hex.DecodeString(key); err != nil {
		t.Errorf("Expected hex output, got: %v", err)
	}

	other, err := Generate()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if key == other {
		t.Error("Expected distinct keys across calls")
	}
}

func TestEnvFileRoundTrip(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store := NewEnvFile(filepath.Join(tempDir, "secret.env"))

	if err := store.Save("s3cr3t"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	key, err := store.Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if key != "s3cr3t" {
		t.Errorf("Expected s3cr3t, got: %q", key)
	}
}

func TestEnvFileLoadMissing(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store := NewEnvFile(filepath.Join(tempDir, "secret.env"))

	_, err = store.Load()
	if !errors.Is(err, eserrors.ErrMissingSecretKey) {
		t.Fatalf("Expected ErrMissingSecretKey, got: %v", err)
	}
}

func TestEnvFileFormat(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "secret.env")
	store := NewEnvFile(path)
	if err := store.Save("s3cr3t"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if string(data) != "ENV_SECURE_KEY=s3cr3t\n" {
		t.Errorf("Expected reserved assignment, got: %q", string(data))
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected 0600 permissions, got: %v", info.Mode().Perm())
		}
	}
}

func TestEnvFileIgnoresUnrelatedLines(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "secret.env")
	content := strings.Join([]string{"# managed by envseal", "", "ENV_SECURE_KEY=s3cr3t"}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to seed store file: %v", err)
	}

	key, err := NewEnvFile(path).Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if key != "s3cr3t" {
		t.Errorf("Expected s3cr3t, got: %q", key)
	}
}

func TestEnvFileSaveOverwrites(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store := NewEnvFile(filepath.Join(tempDir, "secret.env"))
	if err := store.Save("old"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := store.Save("new"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	key, err := store.Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if key != "new" {
		t.Errorf("Expected new, got: %q", key)
	}
}

func TestEnvFileSaveEmpty(t *testing.T) {
	store := NewEnvFile(filepath.Join(os.TempDir(), "unused"))
	if err := store.Save(""); !errors.Is(err, eserrors.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := &Memory{}

	if _, err := store.Load(); !errors.Is(err, eserrors.ErrMissingSecretKey) {
		t.Fatalf("Expected ErrMissingSecretKey, got: %v", err)
	}

	if err := store.Save("s3cr3t"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	key, err := store.Load()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if key != "s3cr3t" {
		t.Errorf("Expected s3cr3t, got: %q", key)
	}

	if err := store.Save(""); !errors.Is(err, eserrors.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got: %v", err)
	}
}
