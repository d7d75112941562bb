// Package errors provides typed error values for the envseal application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Input errors: required material absent (ErrMissingPassphrase, ErrEmptyInput)
//   - Cipher errors: token parsing and decryption (ErrMalformedToken, ErrDecryptionFailed)
//   - Format errors: encrypted file framing (ErrInvalidFormat)
//   - File state errors: file presence and content (ErrFileNotFound, ErrFileEmpty)
//   - Key lifecycle errors: set/rotate policy (ErrKeyAlreadySet, ErrKeyMismatch)
//   - Project errors: project state (ErrProjectNotInitialized)
//
// # Usage
//
// Return errors from internal packages:
//
//	if secretKey == "" {
//	    return nil, errors.ErrMissingSecretKey
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, eserrors.ErrDecryptionFailed) {
//	    // Show user-friendly wrong-passphrase message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %v", errors.ErrInvalidFormat, err)
//
// Cryptographic failures are never retried; they are not transient.
package errors
