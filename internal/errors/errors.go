package errors

import "errors"

// Input errors indicate required material was absent or unusable.
var (
	// ErrInvalidInput indicates an empty passphrase, secret key, or text where a value is required.
	ErrInvalidInput = errors.New("input must not be empty")

	// ErrMissingSecretKey indicates no secret key is available for the operation.
	ErrMissingSecretKey = errors.New("secret key is missing")

	// ErrMissingPassphrase indicates no passphrase was supplied for the operation.
	ErrMissingPassphrase = errors.New("passphrase is missing")

	// ErrEmptyInput indicates there were no lines to process.
	ErrEmptyInput = errors.New("no lines to process")
)

// Cipher errors indicate failures while sealing or opening ciphertext tokens.
var (
	// ErrMalformedToken indicates a ciphertext token could not be parsed.
	ErrMalformedToken = errors.New("malformed ciphertext token")

	// ErrDecryptionFailed indicates a cipher operation failed, typically from a
	// wrong key or passphrase. Wrong keys and corrupted ciphertext surface
	// identically; there is no oracle distinguishing the two.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// Format errors indicate an encrypted file does not match the expected framing.
var (
	// ErrInvalidFormat indicates the encrypted file is missing its header or the
	// header does not wrap the reserved secret key label.
	ErrInvalidFormat = errors.New("invalid encrypted file format")
)

// File state errors indicate a file was not in the state an operation requires.
var (
	// ErrFileNotFound indicates a target file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileEmpty indicates a target file exists but has no content.
	ErrFileEmpty = errors.New("file is empty")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrAlreadyEncrypted indicates the file is already in its encrypted form.
	ErrAlreadyEncrypted = errors.New("file is already encrypted")

	// ErrNotEncrypted indicates no encrypted form of the file exists.
	ErrNotEncrypted = errors.New("file is not encrypted")
)

// Key lifecycle errors indicate policy violations around the stored secret key.
var (
	// ErrKeyAlreadySet indicates a secret key already exists and would be overwritten.
	ErrKeyAlreadySet = errors.New("secret key is already set")

	// ErrKeyMismatch indicates the supplied key does not match the stored key.
	ErrKeyMismatch = errors.New("supplied key does not match the stored secret key")
)

// Project state errors indicate issues with project configuration or initialization.
var (
	// ErrProjectNotInitialized indicates the directory tree has no envseal project.
	ErrProjectNotInitialized = errors.New("project has not been initialized")

	// ErrProjectAlreadyInitialized indicates the project has already been set up.
	ErrProjectAlreadyInitialized = errors.New("project has already been initialized")

	// ErrInvalidProjectConfig indicates the project configuration is malformed or corrupt.
	ErrInvalidProjectConfig = errors.New("project configuration is invalid")
)

// CLI input errors indicate arguments that could not be interpreted.
var (
	// ErrInvalidDateFormat indicates a date filter was not in YYYY-MM-DD format.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
