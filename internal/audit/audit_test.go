package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/envseal/envseal/internal/configs"
)

// setupTestProject points the project settings at a temp project with an
// .envseal directory and restores them afterwards.
func setupTestProject(t *testing.T) string {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "envseal-audit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	envsealDir := filepath.Join(tempDir, ".envseal")
	if err := os.MkdirAll(envsealDir, 0700); err != nil {
		t.Fatalf("Failed to create .envseal dir: %v", err)
	}

	originalSettings := configs.ProjectEnvsealSettings
	configs.ProjectEnvsealSettings = &configs.ProjectSettings{
		ProjectPath:     tempDir,
		ProjectDirPath:  envsealDir,
		ProjectAuditLog: filepath.Join(envsealDir, "audit.jsonl"),
	}
	t.Cleanup(func() {
		configs.ProjectEnvsealSettings = originalSettings
	})

	return tempDir
}

func TestLog_CreatesFile(t *testing.T) {
	tempDir := setupTestProject(t)

	entry := Entry{
		User:      "alice",
		Operation: "encrypt",
		Files:     []string{".env.sealed"},
	}
	Log(entry)

	logPath := filepath.Join(tempDir, ".envseal", "audit.jsonl")
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	setupTestProject(t)

	Log(Entry{User: "alice", Operation: "encrypt"})
	Log(Entry{User: "bob", Operation: "decrypt"})
	Log(Entry{User: "carol", Operation: "rotate"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got: %d", len(entries))
	}
	if entries[0].Operation != "encrypt" || entries[2].Operation != "rotate" {
		t.Errorf("Expected entries in append order, got: %+v", entries)
	}
}

func TestLog_SetsTimestamp(t *testing.T) {
	setupTestProject(t)

	Log(Entry{Operation: "encrypt"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}
	if entries[0].Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}
	if !strings.HasSuffix(entries[0].Timestamp, "Z") {
		t.Errorf("Expected UTC timestamp, got: %s", entries[0].Timestamp)
	}
}

func TestLog_SkipsUninitializedProject(t *testing.T) {
	originalSettings := configs.ProjectEnvsealSettings
	configs.ProjectEnvsealSettings = &configs.ProjectSettings{}
	defer func() {
		configs.ProjectEnvsealSettings = originalSettings
	}()

	// Must not panic or create files anywhere.
	Log(Entry{Operation: "encrypt"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected no entries, got: %+v", entries)
	}
}

func TestNewEntry_PopulatesOperator(t *testing.T) {
	entry := NewEntry("rekey")
	if entry.Operation != "rekey" {
		t.Errorf("Expected rekey, got: %s", entry.Operation)
	}
	// Username and hostname should resolve on any test machine.
	if entry.User == "" {
		t.Error("Expected username to be set")
	}
	if entry.Host == "" {
		t.Error("Expected hostname to be set")
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2025-01-01T00:00:00.000000Z","op":"encrypt"}
not json at all
{"ts":"2025-01-01T00:00:01.000000Z","op":"decrypt"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}
	if entries[0].Operation != "encrypt" || entries[1].Operation != "decrypt" {
		t.Errorf("Expected encrypt and decrypt, got: %+v", entries)
	}
}

func TestParseEntries_Empty(t *testing.T) {
	entries, err := ParseEntries(nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil, got: %+v", entries)
	}
}

func TestReadEntries_MissingLog(t *testing.T) {
	setupTestProject(t)

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil for a missing log, got: %+v", entries)
	}
}
