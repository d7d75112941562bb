package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/envseal/envseal/internal/configs"
	"github.com/envseal/envseal/internal/utils"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`             // RFC3339 with microseconds.
	User      string `json:"user,omitempty"` // OS username of the operator.
	Host      string `json:"host,omitempty"` // Hostname the operation ran on.
	Operation string `json:"op"`             // Operation name.

	// Optional fields depending on operation.
	Files       []string `json:"files,omitempty"`        // For encrypt/decrypt/rekey.
	FilesCount  int      `json:"files_count,omitempty"`  // For encrypt/decrypt/rekey.
	KeyFP       string   `json:"key_fp,omitempty"`       // For key set/generate/show.
	OldKeyFP    string   `json:"old_key_fp,omitempty"`   // For key rotate/rekey.
	NewKeyFP    string   `json:"new_key_fp,omitempty"`   // For key rotate/rekey.
	ProjectName string   `json:"project_name,omitempty"` // For init.
	ProjectUUID string   `json:"project_uuid,omitempty"` // For init.
	Command     string   `json:"cmd,omitempty"`          // For run.
	VarCount    int      `json:"var_count,omitempty"`    // For run.
}

// NewEntry returns an entry for op with the operator fields populated from
// the OS. Lookup failures leave the fields empty rather than failing.
func NewEntry(op string) Entry {
	entry := Entry{Operation: op}

	if username, err := utils.GetUsername(); err == nil {
		entry.User = username
	}
	if hostname, err := utils.GetHostname(); err == nil {
		entry.Host = hostname
	}

	return entry
}

// Log appends an entry to the audit log.
// If logging fails, the entry is dropped. Operations should not fail just
// because audit logging failed.
func Log(entry Entry) {
	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if logPath == "" {
		// Project not initialized, skip logging.
		return
	}

	// Open file for appending (create if doesn't exist).
	// #nosec G306 -- audit log holds no secrets, only fingerprints and paths.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	// Write entry with newline.
	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file.
// Returns empty string if project is not initialized.
func LogPath() string {
	return configs.ProjectEnvsealSettings.ProjectAuditLog
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
