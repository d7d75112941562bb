package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/envseal/envseal/internal/audit"
	"github.com/envseal/envseal/internal/codec"
	"github.com/envseal/envseal/internal/configs"
	"github.com/envseal/envseal/internal/crypto"
	"github.com/envseal/envseal/internal/dotenv"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/keystore"
	"github.com/envseal/envseal/internal/utils"
)

// RekeyOptions configures the rekey workflow.
type RekeyOptions struct {
	// FilePatterns specifies files to rekey. If empty, all .sealed files are rekeyed.
	FilePatterns []string

	// OldPassphrase unwraps the existing headers.
	OldPassphrase string

	// NewPassphrase wraps the new headers. Defaults to OldPassphrase.
	NewPassphrase string

	// NewKey is the replacement secret key. Ignored when Generate is true.
	NewKey string

	// Generate creates a random replacement key instead of using NewKey.
	Generate bool
}

// RekeyResult contains the outcome of a rekey operation.
type RekeyResult struct {
	// Files lists the sealed files that were rewritten.
	Files []string

	// OldFingerprint identifies the replaced key, when it could be determined.
	OldFingerprint string

	// NewFingerprint identifies the replacement key.
	NewFingerprint string

	// Generated indicates the replacement was created rather than supplied.
	Generated bool

	// NewKey is the stored replacement key. Callers must not log it.
	NewKey string
}

// Rekey replaces the secret key and re-encrypts every sealed file under it,
// all without writing plaintext to disk.
//
// Each file is decrypted in memory with the old passphrase, its reserved
// key assignment is updated to the new key, and it is re-encrypted under
// the new key and passphrase. All files are decrypted and verified before
// the first one is rewritten, so a wrong passphrase aborts with nothing
// changed. The key store is updated last.
//
// When neither NewKey nor Generate is given the current key is kept, which
// turns rekey into a pure passphrase change.
//
// Returns ErrProjectNotInitialized if the project has no .envseal directory.
// Returns ErrMissingPassphrase if the old passphrase is empty.
// Returns ErrNotEncrypted if no .sealed files match the specified patterns.
// Returns ErrDecryptionFailed if the old passphrase is wrong.
// Returns ErrInvalidInput if no replacement is supplied and no current key
// exists to keep.
func Rekey(ctx context.Context, opts RekeyOptions) (*RekeyResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}

	projectPath := configs.ProjectEnvsealSettings.ProjectPath
	if projectPath == "" {
		return nil, eserrors.ErrProjectNotInitialized
	}

	if opts.OldPassphrase == "" {
		return nil, eserrors.ErrMissingPassphrase
	}
	newPassphrase := opts.NewPassphrase
	if newPassphrase == "" {
		newPassphrase = opts.OldPassphrase
	}

	sealedFiles, err := resolveEnvFiles(opts.FilePatterns, projectPath, true)
	if err != nil {
		return nil, err
	}
	if len(sealedFiles) == 0 {
		return nil, eserrors.ErrNotEncrypted
	}

	// Decrypt everything up front so a wrong passphrase touches nothing.
	bodies := make(map[string][]string, len(sealedFiles))
	for _, f := range sealedFiles {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		body, err := codec.DecryptFile(dotenv.SplitLines(string(data)), opts.OldPassphrase)
		if err != nil {
			return nil, fmt.Errorf("decrypting %s: %w", f, err)
		}
		bodies[f] = body
	}

	currentKey := currentSecretKey(sealedFiles, bodies)

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
		// Keeping the key is valid; the rekey may only change the passphrase.
		newKey = currentKey
	}
	if newKey == "" {
		return nil, fmt.Errorf("%w: no replacement key and none stored to keep", eserrors.ErrInvalidInput)
	}

	oldFingerprint := ""
	if currentKey != "" {
		oldFingerprint = crypto.Fingerprint(currentKey)
	}

	for _, f := range sealedFiles {
		body := bodies[f]

		// Point any reserved assignment at the new key so a later decrypt
		// restores a plaintext file consistent with the key store.
		for i, raw := range body {
			if dotenv.Parse(raw).IsReserved() {
				body[i] = dotenv.ReservedLine(newKey)
			}
		}

		encLines, err := codec.EncryptFile(body, newKey, newPassphrase)
		if err != nil {
			return nil, fmt.Errorf("re-encrypting %s: %w", f, err)
		}
		content := dotenv.JoinLines(encLines)
		if err := utils.WriteFileAtomic(f, []byte(content), 0600); err != nil {
			return nil, fmt.Errorf("rewriting %s: %w", f, err)
		}
	}

	if err := projectKeyStore().Save(newKey); err != nil {
		return nil, fmt.Errorf("storing secret key: %w", err)
	}

	newFingerprint := crypto.Fingerprint(newKey)

	auditEntry := audit.NewEntry("rekey")
	auditEntry.Files = sealedFiles
	auditEntry.FilesCount = len(sealedFiles)
	auditEntry.OldKeyFP = oldFingerprint
	auditEntry.NewKeyFP = newFingerprint
	audit.Log(auditEntry)

	return &RekeyResult{
		Files:          sealedFiles,
		OldFingerprint: oldFingerprint,
		NewFingerprint: newFingerprint,
		Generated:      generated,
		NewKey:         newKey,
	}, nil
}

// currentSecretKey recovers the key in use: the stored key if one exists,
// otherwise the reserved assignment from a decrypted body. A project cloned
// without .envseal/secret.env still carries its key inside each sealed file.
func currentSecretKey(sealedFiles []string, bodies map[string][]string) string {
	if current, err := projectKeyStore().Load(); err == nil {
		return current
	} else if !errors.Is(err, eserrors.ErrMissingSecretKey) {
		return ""
	}

	for _, f := range sealedFiles {
		if key, ok := codec.SecretKeyFromLines(bodies[f]); ok {
			return key
		}
	}
	return ""
}
