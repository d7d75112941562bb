package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEncryptDecryptCommandsBasic contains end-to-end tests for the `envseal encrypt`
// and `envseal decrypt` commands.
func TestEncryptDecryptCommandsBasic(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}

	t.Run("EncryptSealsEnvFile", func(t *testing.T) {
		testEncryptSealsEnvFile(t, originalWd)
	})

	t.Run("EncryptWithDryRun", func(t *testing.T) {
		testEncryptWithDryRun(t, originalWd)
	})

	t.Run("EncryptWithoutKey", func(t *testing.T) {
		testEncryptWithoutKey(t, originalWd)
	})

	t.Run("EncryptWithNoEnvFiles", func(t *testing.T) {
		testEncryptWithNoEnvFiles(t, originalWd)
	})

	t.Run("DecryptRestoresEnvFile", func(t *testing.T) {
		testDecryptRestoresEnvFile(t, originalWd)
	})

	t.Run("DecryptWithWrongPassphrase", func(t *testing.T) {
		testDecryptWithWrongPassphrase(t, originalWd)
	})

	t.Run("DecryptWithNothingSealed", func(t *testing.T) {
		testDecryptWithNothingSealed(t, originalWd)
	})
}

// testEncryptSealsEnvFile tests that encrypt replaces the plaintext file with a sealed one.
func testEncryptSealsEnvFile(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-encrypt-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)
	initializeProjectWithKey(t)
	t.Setenv("ENVSEAL_PASSPHRASE", "test-passphrase")

	envContent := "DB_HOST=localhost\nDB_PORT=5432\n"
	if writeErr := os.WriteFile(".env", []byte(envContent), 0600); writeErr != nil {
		t.Fatalf("Failed to write env file: %v", writeErr)
	}

	output, err := runEnvseal("encrypt")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "encrypted successfully") {
		t.Errorf("Expected success message not found in output: %s", output)
	}

	// The plaintext must be gone and the sealed file present
	if _, statErr := os.Stat(filepath.Join(tempDir, ".env")); !os.IsNotExist(statErr) {
		t.Errorf("Expected plaintext .env to be removed after encryption")
	}

	sealedData, readErr := os.ReadFile(filepath.Join(tempDir, ".env.sealed"))
	if readErr != nil {
		t.Fatalf("Failed to read sealed file: %v", readErr)
	}
	if !strings.HasPrefix(string(sealedData), "SECRET_KEY=") {
		t.Errorf("Expected sealed file to start with header line, got: %s", string(sealedData))
	}
	if strings.Contains(string(sealedData), "localhost") {
		t.Errorf("Sealed file still contains plaintext values")
	}
}

// testEncryptWithDryRun tests that --dry-run reports files without touching them.
func testEncryptWithDryRun(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-encrypt-dryrun-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)
	initializeProjectWithKey(t)

	if writeErr := os.WriteFile(".env", []byte("API_KEY=value\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to write env file: %v", writeErr)
	}

	// No passphrase needed for a dry run
	output, err := runEnvseal("encrypt", "--dry-run")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "would be encrypted") {
		t.Errorf("Expected dry-run message not found in output: %s", output)
	}

	if _, statErr := os.Stat(filepath.Join(tempDir, ".env")); statErr != nil {
		t.Errorf("Expected plaintext .env to be untouched by dry run: %v", statErr)
	}
	if _, statErr := os.Stat(filepath.Join(tempDir, ".env.sealed")); !os.IsNotExist(statErr) {
		t.Errorf("Expected no sealed file to be created by dry run")
	}
}

// testEncryptWithoutKey tests encrypt before a secret key has been set.
func testEncryptWithoutKey(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-encrypt-nokey-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)
	t.Setenv("ENVSEAL_PASSPHRASE", "test-passphrase")

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", runErr, output)
	}

	if writeErr := os.WriteFile(".env", []byte("API_KEY=value\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to write env file: %v", writeErr)
	}

	output, err := runEnvseal("encrypt")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "No secret key is set") {
		t.Errorf("Expected missing key message not found in output: %s", output)
	}
}

// testEncryptWithNoEnvFiles tests encrypt when nothing matches.
func testEncryptWithNoEnvFiles(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-encrypt-nofiles-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)
	initializeProjectWithKey(t)
	t.Setenv("ENVSEAL_PASSPHRASE", "test-passphrase")

	output, err := runEnvseal("encrypt")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "No environment files found") {
		t.Errorf("Expected no files message not found in output: %s", output)
	}
}

// testDecryptRestoresEnvFile tests the full encrypt then decrypt round trip.
func testDecryptRestoresEnvFile(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-decrypt-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)
	initializeProjectWithKey(t)
	t.Setenv("ENVSEAL_PASSPHRASE", "test-passphrase")

	envContent := "DB_HOST=localhost\n\n# production settings\nDB_PORT=5432\n"
	if writeErr := os.WriteFile(".env", []byte(envContent), 0600); writeErr != nil {
		t.Fatalf("Failed to write env file: %v", writeErr)
	}

	if output, runErr := runEnvseal("encrypt"); runErr != nil {
		t.Fatalf("Encrypt failed: %v\nOutput: %s", runErr, output)
	}

	output, err := runEnvseal("decrypt")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "decrypted successfully") {
		t.Errorf("Expected success message not found in output: %s", output)
	}

	restored, readErr := os.ReadFile(filepath.Join(tempDir, ".env"))
	if readErr != nil {
		t.Fatalf("Failed to read restored file: %v", readErr)
	}
	if string(restored) != envContent {
		t.Errorf("Expected restored content %q, got %q", envContent, string(restored))
	}

	if _, statErr := os.Stat(filepath.Join(tempDir, ".env.sealed")); !os.IsNotExist(statErr) {
		t.Errorf("Expected sealed file to be removed after decryption")
	}
}

// testDecryptWithWrongPassphrase tests that a bad passphrase leaves the sealed file intact.
func testDecryptWithWrongPassphrase(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-decrypt-wrongpw-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)
	initializeProjectWithKey(t)

	t.Setenv("ENVSEAL_PASSPHRASE", "correct-passphrase")
	if writeErr := os.WriteFile(".env", []byte("API_KEY=value\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to write env file: %v", writeErr)
	}
	if output, runErr := runEnvseal("encrypt"); runErr != nil {
		t.Fatalf("Encrypt failed: %v\nOutput: %s", runErr, output)
	}

	t.Setenv("ENVSEAL_PASSPHRASE", "wrong-passphrase")
	output, err := runEnvseal("decrypt")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "✗") {
		t.Errorf("Expected an error message in output: %s", output)
	}

	// Nothing must be written and the sealed file must survive
	if _, statErr := os.Stat(filepath.Join(tempDir, ".env")); !os.IsNotExist(statErr) {
		t.Errorf("Expected no plaintext file after failed decryption")
	}
	if _, statErr := os.Stat(filepath.Join(tempDir, ".env.sealed")); statErr != nil {
		t.Errorf("Expected sealed file to survive failed decryption: %v", statErr)
	}
}

// testDecryptWithNothingSealed tests decrypt when no sealed files exist.
func testDecryptWithNothingSealed(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-decrypt-nothing-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)
	initializeProjectWithKey(t)
	t.Setenv("ENVSEAL_PASSPHRASE", "test-passphrase")

	if writeErr := os.WriteFile(".env", []byte("API_KEY=value\n"), 0600); writeErr != nil {
		t.Fatalf("Failed to write env file: %v", writeErr)
	}

	output, err := runEnvseal("decrypt")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "No sealed environment files found") {
		t.Errorf("Expected no sealed files message not found in output: %s", output)
	}
}
