// Package audit provides audit trail logging for Envseal operations.
//
// Every significant operation (init, encrypt, decrypt, key rotation, etc.)
// is recorded in a project-level audit log. This provides accountability
// and helps teams understand when env files were sealed or opened.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	.envseal/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - OS username and hostname of the operator
//   - Operation name
//   - Operation-specific details (files, key fingerprints, etc.)
//
// Secret keys never appear in the log, only their fingerprints.
//
// # Usage
//
// Create an entry with operator info pre-populated:
//
//	entry := audit.NewEntry("encrypt")
//	entry.Files = sealedFiles
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. Operations should never
// fail just because audit logging failed.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
