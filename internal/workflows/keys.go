package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/envseal/envseal/internal/audit"
	"github.com/envseal/envseal/internal/configs"
	"github.com/envseal/envseal/internal/crypto"
	"github.com/envseal/envseal/internal/dotenv"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/keystore"
)

// projectKeyStore returns the store for the current project's secret key.
func projectKeyStore() keystore.Store {
	return keystore.NewEnvFile(configs.ProjectEnvsealSettings.ProjectKeyPath)
}

// SetKeyOptions configures the set-key workflow.
type SetKeyOptions struct {
	// Key is the secret key to store. Ignored when Generate is true.
	Key string

	// Generate creates a random key instead of using Key.
	Generate bool
}

// SetKeyResult contains the outcome of a set-key operation.
type SetKeyResult struct {
	// Key is the stored secret key. Populated so generated keys can be
	// shown to the user once; callers must not log it.
	Key string

	// Fingerprint identifies the stored key without revealing it.
	Fingerprint string

	// Generated indicates the key was created rather than supplied.
	Generated bool

	// KeyPath is where the key was stored.
	KeyPath string
}

// SetKey stores the project secret key. The key can only be set once;
// replacing an existing key is rotation and has its own verification.
//
// Returns ErrProjectNotInitialized if the project has no .envseal directory.
// Returns ErrKeyAlreadySet if a secret key is already stored.
// Returns ErrInvalidInput if no key is supplied and Generate is false.
func SetKey(ctx context.Context, opts SetKeyOptions) (*SetKeyResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}
	if configs.ProjectEnvsealSettings.ProjectPath == "" {
		return nil, eserrors.ErrProjectNotInitialized
	}

	store := projectKeyStore()

	if _, err := store.Load(); err == nil {
		return nil, eserrors.ErrKeyAlreadySet
	} else if !errors.Is(err, eserrors.ErrMissingSecretKey) {
		return nil, fmt.Errorf("checking key store: %w", err)
	}

	key := opts.Key
	generated := false
	if opts.Generate {
		var err error
		key, err = keystore.Generate()
		if err != nil {
			return nil, err
		}
		generated = true
	}
	if key == "" {
		return nil, fmt.Errorf("%w: secret key must not be empty", eserrors.ErrInvalidInput)
	}

	if err := store.Save(key); err != nil {
		return nil, fmt.Errorf("storing secret key: %w", err)
	}

	fingerprint := crypto.Fingerprint(key)

	op := "key_set"
	if generated {
		op = "key_generate"
	}
	auditEntry := audit.NewEntry(op)
	auditEntry.KeyFP = fingerprint
	audit.Log(auditEntry)

	return &SetKeyResult{
		Key:         key,
		Fingerprint: fingerprint,
		Generated:   generated,
		KeyPath:     configs.ProjectEnvsealSettings.ProjectKeyPath,
	}, nil
}

// RotateKeyOptions configures the rotate-key workflow.
type RotateKeyOptions struct {
	// OldKey must match the currently stored key.
	OldKey string

	// NewKey is the replacement key. Ignored when Generate is true.
	NewKey string

	// Generate creates a random replacement key instead of using NewKey.
	Generate bool
}

// RotateKeyResult contains the outcome of a rotate-key operation.
type RotateKeyResult struct {
	// NewKey is the stored replacement key. Callers must not log it.
	NewKey string

	// OldFingerprint identifies the replaced key.
	OldFingerprint string

	// NewFingerprint identifies the replacement key.
	NewFingerprint string

	// Generated indicates the replacement was created rather than supplied.
	Generated bool

	// SealedFiles lists files still encrypted under the old key. They can
	// no longer be round-tripped through encrypt until rekeyed.
	SealedFiles []string
}

// RotateKey replaces the stored secret key after verifying the old one.
//
// Rotation only swaps the stored key. Files sealed under the old key stay
// sealed under it; use Rekey to re-encrypt them in the same step.
//
// Returns ErrProjectNotInitialized if the project has no .envseal directory.
// Returns ErrMissingSecretKey if no key is stored yet.
// Returns ErrKeyMismatch if OldKey does not match the stored key.
// Returns ErrInvalidInput if no replacement is supplied and Generate is false.
func RotateKey(ctx context.Context, opts RotateKeyOptions) (*RotateKeyResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}
	projectPath := configs.ProjectEnvsealSettings.ProjectPath
	if projectPath == "" {
		return nil, eserrors.ErrProjectNotInitialized
	}

	store := projectKeyStore()

	current, err := store.Load()
	if err != nil {
		return nil, err
	}
	if opts.OldKey != current {
		return nil, eserrors.ErrKeyMismatch
	}

	newKey := opts.NewKey
	generated := false
	if opts.Generate {
		newKey, err = keystore.Generate()
		if err != nil {
			return nil, err
		}
		generated = true
	}
	if newKey == "" {
		return nil, fmt.Errorf("%w: replacement key must not be empty", eserrors.ErrInvalidInput)
	}

	if err := store.Save(newKey); err != nil {
		return nil, fmt.Errorf("storing secret key: %w", err)
	}

	// Files sealed under the old key are untouched; surface them so the
	// caller can suggest a rekey.
	sealedFiles, err := dotenv.FindFiles(projectPath, true)
	if err != nil {
		sealedFiles = nil
	}

	oldFingerprint := crypto.Fingerprint(current)
	newFingerprint := crypto.Fingerprint(newKey)

	auditEntry := audit.NewEntry("key_rotate")
	auditEntry.OldKeyFP = oldFingerprint
	auditEntry.NewKeyFP = newFingerprint
	audit.Log(auditEntry)

	return &RotateKeyResult{
		NewKey:         newKey,
		OldFingerprint: oldFingerprint,
		NewFingerprint: newFingerprint,
		Generated:      generated,
		SealedFiles:    sealedFiles,
	}, nil
}

// ShowKeyOptions configures the show-key workflow.
type ShowKeyOptions struct {
	// Reveal records that the caller intends to display the key itself
	// rather than just the fingerprint. Reveals are audited.
	Reveal bool
}

// ShowKeyResult contains the outcome of a show-key operation.
type ShowKeyResult struct {
	// Key is the stored secret key. Callers must not log it.
	Key string

	// Fingerprint identifies the stored key without revealing it.
	Fingerprint string

	// KeyPath is where the key is stored.
	KeyPath string
}

// ShowKey loads the stored secret key for display.
//
// Returns ErrProjectNotInitialized if the project has no .envseal directory.
// Returns ErrMissingSecretKey if no key is stored yet.
func ShowKey(ctx context.Context, opts ShowKeyOptions) (*ShowKeyResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}
	if configs.ProjectEnvsealSettings.ProjectPath == "" {
		return nil, eserrors.ErrProjectNotInitialized
	}

	key, err := projectKeyStore().Load()
	if err != nil {
		return nil, err
	}

	if opts.Reveal {
		auditEntry := audit.NewEntry("key_show")
		auditEntry.KeyFP = crypto.Fingerprint(key)
		audit.Log(auditEntry)
	}

	return &ShowKeyResult{
		Key:         key,
		Fingerprint: crypto.Fingerprint(key),
		KeyPath:     configs.ProjectEnvsealSettings.ProjectKeyPath,
	}, nil
}
