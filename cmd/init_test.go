package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestInitCommandBasic contains basic integration tests for the `envseal init` command.
func TestInitCommandBasic(t *testing.T) {
	// Save original working directory
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}

	t.Run("InitInEmptyFolder", func(t *testing.T) {
		testInitInEmptyFolder(t, originalWd)
	})

	t.Run("InitInAlreadyInitializedFolder", func(t *testing.T) {
		testInitInAlreadyInitializedFolder(t, originalWd)
	})

	t.Run("InitWithCustomName", func(t *testing.T) {
		testInitWithCustomName(t, originalWd)
	})

	t.Run("InitWithVerboseFlag", func(t *testing.T) {
		testInitWithVerboseFlag(t, originalWd)
	})
}

// testInitInEmptyFolder tests successful initialization in an empty folder.
func testInitInEmptyFolder(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-init-empty-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	output, err := runEnvseal("init")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "initialized") {
		t.Errorf("Expected success message not found in output: %s", output)
	}

	// Verify project structure was created
	configPath := filepath.Join(tempDir, ".envseal", "config.toml")
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		t.Errorf("Expected config file at %s to exist", configPath)
	}

	auditPath := filepath.Join(tempDir, ".envseal", "audit.jsonl")
	if _, statErr := os.Stat(auditPath); os.IsNotExist(statErr) {
		t.Errorf("Expected audit log at %s to exist", auditPath)
	}
}

// testInitInAlreadyInitializedFolder tests behavior when running init twice.
func testInitInAlreadyInitializedFolder(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-init-existing-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	if output, runErr := runEnvseal("init"); runErr != nil {
		t.Fatalf("First init failed: %v\nOutput: %s", runErr, output)
	}

	// Command should succeed but show already initialized message
	output, err := runEnvseal("init")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "has already been initialized") {
		t.Errorf("Expected already initialized message not found in output: %s", output)
	}
}

// testInitWithCustomName tests initialization with the --name flag.
func testInitWithCustomName(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-init-named-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	output, err := runEnvseal("init", "--name", "custom-app")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "custom-app") {
		t.Errorf("Expected project name in output: %s", output)
	}

	configPath := filepath.Join(tempDir, ".envseal", "config.toml")
	content, readErr := os.ReadFile(configPath)
	if readErr != nil {
		t.Fatalf("Failed to read config file: %v", readErr)
	}
	if !strings.Contains(string(content), "custom-app") {
		t.Errorf("Expected project name in config file, got: %s", string(content))
	}
}

// testInitWithVerboseFlag tests initialization with the --verbose flag.
func testInitWithVerboseFlag(t *testing.T, originalWd string) {
	tempDir, err := os.MkdirTemp("", "envseal-test-init-verbose-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	setupTestEnvironment(t, tempDir, originalWd)

	output, err := runEnvseal("init", "--verbose")
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	if !strings.Contains(output, "initialized") {
		t.Errorf("Expected success message not found in output: %s", output)
	}
}
