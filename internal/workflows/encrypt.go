package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/envseal/envseal/internal/audit"
	"github.com/envseal/envseal/internal/codec"
	"github.com/envseal/envseal/internal/configs"
	"github.com/envseal/envseal/internal/crypto"
	"github.com/envseal/envseal/internal/dotenv"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/utils"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// FilePatterns specifies files to encrypt. If empty, all .env files are encrypted.
	FilePatterns []string

	// Passphrase protects the secret key inside each sealed file's header.
	Passphrase string

	// DryRun previews which files would be encrypted without making changes.
	DryRun bool
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// SealedFiles lists the .sealed files that were created.
	SealedFiles []string

	// SourceFiles lists the .env files that were encrypted.
	SourceFiles []string

	// KeyFingerprint identifies the secret key the files were sealed under.
	KeyFingerprint string

	// ProjectPath is the root path of the project.
	ProjectPath string

	// DryRun indicates whether this was a dry-run (no files modified).
	DryRun bool
}

// Encrypt seals environment files under the project secret key.
//
// Each file becomes a sibling with a .sealed extension: a header wrapping the
// secret key under a passphrase-derived key, followed by one line per input
// line with blank and comment lines passed through. The plaintext file is
// removed once the sealed file is written.
//
// Returns ErrProjectNotInitialized if the project has no .envseal directory.
// Returns ErrMissingSecretKey if no key is stored yet.
// Returns ErrMissingPassphrase if the passphrase is empty (dry-runs exempt).
// Returns ErrNoFilesFound if no .env files match the specified patterns.
// Returns ErrAlreadyEncrypted if a target file already carries the header.
// Returns ErrFileEmpty if a target file has no content.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}

	projectPath := configs.ProjectEnvsealSettings.ProjectPath
	if projectPath == "" {
		return nil, eserrors.ErrProjectNotInitialized
	}

	if opts.Passphrase == "" && !opts.DryRun {
		return nil, eserrors.ErrMissingPassphrase
	}

	envFiles, err := resolveEnvFiles(opts.FilePatterns, projectPath, false)
	if err != nil {
		return nil, err
	}
	if len(envFiles) == 0 {
		return nil, eserrors.ErrNoFilesFound
	}

	secretKey, err := projectKeyStore().Load()
	if err != nil {
		return nil, err
	}

	result := &EncryptResult{
		SourceFiles:    envFiles,
		KeyFingerprint: crypto.Fingerprint(secretKey),
		ProjectPath:    projectPath,
		DryRun:         opts.DryRun,
	}

	result.SealedFiles = make([]string, len(envFiles))
	for i, f := range envFiles {
		result.SealedFiles[i] = dotenv.SealedPath(f)
	}

	if opts.DryRun {
		return result, nil
	}

	for _, f := range envFiles {
		if err := sealFile(f, secretKey, opts.Passphrase); err != nil {
			return nil, fmt.Errorf("encrypting %s: %w", f, err)
		}
	}

	auditEntry := audit.NewEntry("encrypt")
	auditEntry.Files = result.SealedFiles
	auditEntry.FilesCount = len(result.SealedFiles)
	auditEntry.KeyFP = result.KeyFingerprint
	audit.Log(auditEntry)

	return result, nil
}

// sealFile encrypts a single env file to its .sealed sibling and removes the
// plaintext original.
func sealFile(path, secretKey, passphrase string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", eserrors.ErrFileNotFound, path)
		}
		return fmt.Errorf("reading file: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", eserrors.ErrFileEmpty, path)
	}

	lines := dotenv.SplitLines(string(data))
	if len(lines) > 0 && strings.HasPrefix(lines[0], codec.HeaderMarker) {
		return fmt.Errorf("%w: %s", eserrors.ErrAlreadyEncrypted, path)
	}

	encLines, err := codec.EncryptFile(lines, secretKey, passphrase)
	if err != nil {
		return err
	}

	sealedPath := dotenv.SealedPath(path)
	content := dotenv.JoinLines(encLines)
	if err := utils.WriteFileAtomic(sealedPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing sealed file: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("sealed file written but plaintext remains: %w", err)
	}

	return nil
}

// resolveEnvFiles finds env files based on patterns or defaults to all files
// of the requested kind in the project.
func resolveEnvFiles(patterns []string, projectPath string, sealed bool) ([]string, error) {
	if len(patterns) > 0 {
		resolved, err := dotenv.ResolveFiles(patterns, projectPath, sealed)
		if err != nil {
			return nil, fmt.Errorf("resolving file patterns: %w", err)
		}
		return resolved, nil
	}

	found, err := dotenv.FindFiles(projectPath, sealed)
	if err != nil {
		return nil, fmt.Errorf("finding environment files: %w", err)
	}
	return found, nil
}
