// Package workflows provides high-level orchestration for Envseal commands.
//
// Workflows coordinate multiple operations across packages (configs, codec,
// keystore, audit) to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Resolves the passphrase (flags, environment, terminal prompt)
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading configuration and the project secret key
//   - Validating prerequisites and file states
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
// Each command has a corresponding workflow:
//
//   - Init: Initializes a new Envseal project
//   - SetKey, RotateKey, ShowKey: Manage the project secret key
//   - Encrypt: Seals .env files into .sealed files
//   - Decrypt: Restores .env files from .sealed files
//   - Rekey: Re-seals encrypted files under a new secret key
//   - Run: Executes a command with decrypted variables in its environment
//   - Status: Reports key and file states for the project
//   - Log: Reads and filters the audit log
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Encrypt(ctx, opts)
//	if errors.Is(err, eserrors.ErrMissingSecretKey) {
//	    // Suggest `envseal key set`
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// This enables cancellation, timeouts, and passing request-scoped values.
package workflows
