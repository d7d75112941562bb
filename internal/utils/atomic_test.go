package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWriteFileAtomicCreatesFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	target := filepath.Join(tempDir, ".env")
	if err := WriteFileAtomic(target, []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Expected file to exist, got: %v", err)
	}
	if string(data) != "A=1\n" {
		t.Errorf("Expected written content, got: %q", string(data))
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(target)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected 0600 permissions, got: %v", info.Mode().Perm())
		}
	}
}

func TestWriteFileAtomicReplacesExisting(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	target := filepath.Join(tempDir, ".env")
	if err := os.WriteFile(target, []byte("old"), 0600); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	if err := WriteFileAtomic(target, []byte("new"), 0600); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Expected file to exist, got: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("Expected replacement content, got: %q", string(data))
	}
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	target := filepath.Join(tempDir, ".env")
	if err := WriteFileAtomic(target, []byte("A=1\n"), 0600); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Errorf("Expected no leftover temp files, found: %s", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("Expected exactly one file, got: %d", len(entries))
	}
}

func TestWriteFileAtomicMissingDirectory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "envseal-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	target := filepath.Join(tempDir, "missing", ".env")
	if err := WriteFileAtomic(target, []byte("A=1\n"), 0600); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}
