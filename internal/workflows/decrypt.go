package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/envseal/envseal/internal/audit"
	"github.com/envseal/envseal/internal/codec"
	"github.com/envseal/envseal/internal/configs"
	"github.com/envseal/envseal/internal/dotenv"
	eserrors "github.com/envseal/envseal/internal/errors"
	"github.com/envseal/envseal/internal/utils"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// FilePatterns specifies files to decrypt. If empty, all .sealed files are decrypted.
	FilePatterns []string

	// Passphrase unwraps the secret key from each sealed file's header.
	Passphrase string

	// DryRun previews which files would be decrypted without making changes.
	DryRun bool
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// RestoredFiles lists the .env files that were restored.
	RestoredFiles []string

	// SourceFiles lists the .sealed files that were decrypted.
	SourceFiles []string

	// ProjectPath is the root path of the project.
	ProjectPath string

	// DryRun indicates whether this was a dry-run (no files modified).
	DryRun bool
}

// Decrypt restores environment files from their sealed siblings.
//
// The passphrase unwraps each file's header to recover the secret key, then
// every body line is opened in order. The sealed file is removed once the
// plaintext is written, returning the project to its pre-encrypt state.
//
// Returns ErrProjectNotInitialized if the project has no .envseal directory.
// Returns ErrMissingPassphrase if the passphrase is empty (dry-runs exempt).
// Returns ErrNotEncrypted if no .sealed files match the specified patterns.
// Returns ErrInvalidFormat if a file does not carry the expected framing.
// Returns ErrDecryptionFailed if the passphrase is wrong or content corrupt.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
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

	sealedFiles, err := resolveEnvFiles(opts.FilePatterns, projectPath, true)
	if err != nil {
		return nil, err
	}
	if len(sealedFiles) == 0 {
		return nil, eserrors.ErrNotEncrypted
	}

	result := &DecryptResult{
		SourceFiles: sealedFiles,
		ProjectPath: projectPath,
		DryRun:      opts.DryRun,
	}

	result.RestoredFiles = make([]string, len(sealedFiles))
	for i, f := range sealedFiles {
		result.RestoredFiles[i] = dotenv.PlainPath(f)
	}

	if opts.DryRun {
		return result, nil
	}

	for _, f := range sealedFiles {
		if err := openFile(f, opts.Passphrase); err != nil {
			return nil, fmt.Errorf("decrypting %s: %w", f, err)
		}
	}

	auditEntry := audit.NewEntry("decrypt")
	auditEntry.Files = result.RestoredFiles
	auditEntry.FilesCount = len(result.RestoredFiles)
	audit.Log(auditEntry)

	return result, nil
}

// openFile decrypts a single sealed file back to its plaintext sibling and
// removes the sealed original.
func openFile(path, passphrase string) error {
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

	plainLines, err := codec.DecryptFile(dotenv.SplitLines(string(data)), passphrase)
	if err != nil {
		return err
	}

	plainPath := dotenv.PlainPath(path)
	content := dotenv.JoinLines(plainLines)
	if err := utils.WriteFileAtomic(plainPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing plaintext file: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("plaintext written but sealed file remains: %w", err)
	}

	return nil
}
