package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/envseal/envseal/internal/crypto"
)

// TestKeyCommandsBasic contains basic integration tests for the `envseal key` subcommands.
func TestKeyCommandsBasic(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}

	t.Run("GenerateCreatesKey", func(t *testing.T) {
		testKeyGenerateCreatesKey(t, originalWd)
	})

	t.Run("GenerateWithPrintFlag", func(t *testing.T) {
		testKeyGenerateWithPrintFlag(t, originalWd)
	})

	t.Run("SetStoresProvidedKey", func(t *testing.T) {
		testKeySetStoresProvidedKey(t, originalWd)
	})

	t.Run("SetWhenKeyAlreadyExists", func(t *testing.T) {
		testKeySetWhenKeyAlreadyExists(t, originalWd)
	})

	t.Run("ShowWithoutKey", func(t *testing.T) {
		testKeyShowWithoutKey(t, originalWd)
	})

	t.Run("RotateReplacesKey", func(t *testing.T) {
		testKeyRotateReplacesKey(t, originalWd)
	})

	t.Run("RotateWithWrongCurrentKey", func(t *testing.T) {
		testKeyRotateWithWrongCurrentKey(t, originalWd)
	})
}

// testKeyGenerateCreatesKey tests that key generate stores a key and reports its fingerprint.
func testKeyGenerateCreatesKey(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-key-generate-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", runErr, output)
	}

	output, err := runEnvseal("key", "generate")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "Secret key generated and stored at") {
		t.Errorf("Expected generation message not found in output: %s", output)
	}
	if !strings.Contains(output, "Fingerprint:") {
		t.Errorf("Expected fingerprint in output: %s", output)
	}

	keyPath := filepath.Join(tempDir, ".envseal", "secret.env")
	if _, statErr := os.Stat(keyPath); os.IsNotExist(statErr) {
		t.Errorf("Expected key file at %s to exist", keyPath)
	}
}

// testKeyGenerateWithPrintFlag tests that --print includes the key itself in the output.
func testKeyGenerateWithPrintFlag(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-key-print-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", runErr, output)
	}

	output, err := runEnvseal("key", "generate", "--print")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "Key:") {
		t.Errorf("Expected key line in output: %s", output)
	}
}

// testKeySetStoresProvidedKey tests that key set stores the key given as an argument.
func testKeySetStoresProvidedKey(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-key-set-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", runErr, output)
	}

	output, err := runEnvseal("key", "set", "my-secret-key")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "Secret key stored at") {
		t.Errorf("Expected storage message not found in output: %s", output)
	}

	// The fingerprint of a known key is deterministic
	showOutput, err := runEnvseal("key", "show")
	if err != nil {
		t.Errorf("Show command failed: %v", err)
	}
	if !strings.Contains(showOutput, "A secret key is set") {
		t.Errorf("Expected key set message not found in output: %s", showOutput)
	}
	if !strings.Contains(showOutput, crypto.Fingerprint("my-secret-key")) {
		t.Errorf("Expected fingerprint %s in output: %s", crypto.Fingerprint("my-secret-key"), showOutput)
	}
}

// testKeySetWhenKeyAlreadyExists tests that a second key set is rejected.
func testKeySetWhenKeyAlreadyExists(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-key-set-twice-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", runErr, output)
	}
	if output, runErr := runEnvseal("key", "set", "first-key"); runErr != nil {
		t.Fatalf("First key set failed: %v\nOutput: %s", runErr, output)
	}

	// Command should succeed but refuse to overwrite
	output, err := runEnvseal("key", "set", "second-key")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "already set for this project") {
		t.Errorf("Expected already set message not found in output: %s", output)
	}

	// The original key must be untouched
	showOutput, _ := runEnvseal("key", "show")
	if !strings.Contains(showOutput, crypto.Fingerprint("first-key")) {
		t.Errorf("Expected original key fingerprint in output: %s", showOutput)
	}
}

// testKeyShowWithoutKey tests key show before any key has been set.
func testKeyShowWithoutKey(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-key-show-none-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", runErr, output)
	}

	output, err := runEnvseal("key", "show")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "No secret key is set") {
		t.Errorf("Expected missing key message not found in output: %s", output)
	}
}

// testKeyRotateReplacesKey tests a forced rotation to a specific new key.
func testKeyRotateReplacesKey(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-key-rotate-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", runErr, output)
	}
	if output, runErr := runEnvseal("key", "set", "old-key"); runErr != nil {
		t.Fatalf("Key set failed: %v\nOutput: %s", runErr, output)
	}

	output, err := runEnvseal("key", "rotate", "--old", "old-key", "--new", "replacement-key", "--force")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "Secret key rotated") {
		t.Errorf("Expected rotation message not found in output: %s", output)
	}

	showOutput, _ := runEnvseal("key", "show")
	if !strings.Contains(showOutput, crypto.Fingerprint("replacement-key")) {
		t.Errorf("Expected new key fingerprint in output: %s", showOutput)
	}
}

// testKeyRotateWithWrongCurrentKey tests that rotation verifies the current key.
func testKeyRotateWithWrongCurrentKey(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-key-rotate-wrong-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", runErr, output)
	}
	if output, runErr := runEnvseal("key", "set", "old-key"); runErr != nil {
		t.Fatalf("Key set failed: %v\nOutput: %s", runErr, output)
	}

	output, err := runEnvseal("key", "rotate", "--old", "not-the-key", "--new", "replacement-key", "--force")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "does not match") {
		t.Errorf("Expected mismatch message not found in output: %s", output)
	}

	// The stored key must be unchanged
	showOutput, _ := runEnvseal("key", "show")
	if !strings.Contains(showOutput, crypto.Fingerprint("old-key")) {
		t.Errorf("Expected original key fingerprint in output: %s", showOutput)
	}
}
