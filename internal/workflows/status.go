package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/envseal/envseal/internal/configs"
	"github.com/envseal/envseal/internal/crypto"
	"github.com/envseal/envseal/internal/dotenv"
	eserrors "github.com/envseal/envseal/internal/errors"
)

// FileStatus represents the encryption status of an env file.
type FileStatus string

const (
	// StatusSealed means only the encrypted form exists.
	StatusSealed FileStatus = "sealed"
	// StatusPlaintext means only the plaintext form exists.
	StatusPlaintext FileStatus = "plaintext"
	// StatusConflict means both forms exist, usually from an interrupted
	// encrypt or decrypt.
	StatusConflict FileStatus = "conflict"
)

// KeyState represents whether the project has a stored secret key.
type KeyState string

const (
	// KeyStateMissing means no secret key has been set.
	KeyStateMissing KeyState = "missing"
	// KeyStateSet means a secret key is stored.
	KeyStateSet KeyState = "set"
)

// FileStatusInfo holds information about an env file's encryption status.
type FileStatusInfo struct {
	// Path is the relative path of the file, without the .sealed suffix.
	Path string

	// Status is the encryption status of the file.
	Status FileStatus

	// PlaintextMtime is the modification time of the plaintext file (if any).
	PlaintextMtime string

	// SealedMtime is the modification time of the sealed file (if any).
	SealedMtime string
}

// StatusSummary holds counts of files by status.
type StatusSummary struct {
	// Sealed is the count of files that only exist encrypted.
	Sealed int

	// Plaintext is the count of files that only exist in plaintext.
	Plaintext int

	// Conflict is the count of files where both forms exist.
	Conflict int
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	// FilePatterns narrows the report to matching files. If empty, all env
	// files in the project are reported.
	FilePatterns []string
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	// ProjectName is the name of the project.
	ProjectName string

	// ProjectUUID is the unique identifier of the project.
	ProjectUUID string

	// KeyState reports whether a secret key is stored.
	KeyState KeyState

	// KeyFingerprint identifies the stored key, when one exists.
	KeyFingerprint string

	// Files contains the status of each discovered file.
	Files []FileStatusInfo

	// Summary contains counts of files by status.
	Summary StatusSummary
}

// Status reports the key state and the encryption status of all env files.
//
// Each env file is in one of three states:
//   - sealed: only the .sealed form exists (encrypted at rest)
//   - plaintext: only the plaintext form exists (not yet encrypted)
//   - conflict: both forms exist (interrupted operation, needs attention)
//
// Returns ErrProjectNotInitialized if the project has no .envseal directory.
// Returns ErrInvalidProjectConfig if the project config is malformed.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}

	projectPath := configs.ProjectEnvsealSettings.ProjectPath
	if projectPath == "" {
		return nil, eserrors.ErrProjectNotInitialized
	}

	projectConfig, err := configs.LoadProjectConfig()
	if err != nil {
		if strings.Contains(err.Error(), "toml:") {
			return nil, fmt.Errorf("%w: .envseal/config.toml is not valid TOML", eserrors.ErrInvalidProjectConfig)
		}
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	projectName := projectConfig.Project.Name
	if projectName == "" {
		projectName = configs.ProjectEnvsealSettings.ProjectName
	}

	result := &StatusResult{
		ProjectName: projectName,
		ProjectUUID: projectConfig.Project.UUID,
		KeyState:    KeyStateMissing,
	}

	key, err := projectKeyStore().Load()
	switch {
	case err == nil:
		result.KeyState = KeyStateSet
		result.KeyFingerprint = crypto.Fingerprint(key)
	case errors.Is(err, eserrors.ErrMissingSecretKey):
		// Leave KeyStateMissing.
	default:
		return nil, fmt.Errorf("checking key store: %w", err)
	}

	files, err := discoverFileStatuses(projectPath, opts.FilePatterns)
	if err != nil {
		return nil, fmt.Errorf("discovering file statuses: %w", err)
	}

	// Sort files by path for consistent output.
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	result.Files = files
	result.Summary = calculateStatusSummary(files)
	return result, nil
}

// discoverFileStatuses finds all env files in either form and determines
// their status.
func discoverFileStatuses(projectPath string, patterns []string) ([]FileStatusInfo, error) {
	var envFiles, sealedFiles []string
	var err error

	if len(patterns) > 0 {
		// Status reports what exists, so each pattern is resolved against
		// both forms and misses are tolerated.
		envFiles, _ = dotenv.ResolveFiles(patterns, projectPath, false)
		sealedFiles, _ = dotenv.ResolveFiles(sealedPatternsFor(patterns, projectPath), projectPath, true)
	} else {
		envFiles, err = dotenv.FindFiles(projectPath, false)
		if err != nil {
			return nil, fmt.Errorf("finding env files: %w", err)
		}

		sealedFiles, err = dotenv.FindFiles(projectPath, true)
		if err != nil {
			return nil, fmt.Errorf("finding sealed files: %w", err)
		}
	}

	// Build a set of all base paths (without the .sealed suffix).
	basePaths := make(map[string]bool)
	for _, f := range envFiles {
		basePaths[f] = true
	}
	for _, f := range sealedFiles {
		basePaths[dotenv.PlainPath(f)] = true
	}

	var files []FileStatusInfo
	for basePath := range basePaths {
		status, plainMtime, sealedMtime := determineFileStatus(basePath)

		// Convert to relative path for display.
		relPath, err := filepath.Rel(projectPath, basePath)
		if err != nil {
			relPath = basePath
		}

		files = append(files, FileStatusInfo{
			Path:           relPath,
			Status:         status,
			PlaintextMtime: plainMtime,
			SealedMtime:    sealedMtime,
		})
	}

	return files, nil
}

// sealedPatternsFor maps plaintext patterns to their sealed form so a base
// pattern like ".env" also reports its ".env.sealed" sibling. Directory
// patterns pass through; the resolver walks them for either form.
func sealedPatternsFor(patterns []string, projectPath string) []string {
	mapped := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if dotenv.IsSealedFile(p) {
			mapped = append(mapped, p)
			continue
		}

		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(projectPath, p)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			mapped = append(mapped, p)
			continue
		}

		mapped = append(mapped, dotenv.SealedPath(p))
	}
	return mapped
}

// determineFileStatus determines the encryption status of an env file.
func determineFileStatus(basePath string) (FileStatus, string, string) {
	sealedPath := dotenv.SealedPath(basePath)

	plainInfo, plainErr := os.Stat(basePath)
	sealedInfo, sealedErr := os.Stat(sealedPath)

	plainExists := plainErr == nil
	sealedExists := sealedErr == nil

	var plainMtime, sealedMtime string
	if plainExists {
		plainMtime = plainInfo.ModTime().Format("2006-01-02T15:04:05Z07:00")
	}
	if sealedExists {
		sealedMtime = sealedInfo.ModTime().Format("2006-01-02T15:04:05Z07:00")
	}

	switch {
	case plainExists && sealedExists:
		return StatusConflict, plainMtime, sealedMtime
	case sealedExists:
		return StatusSealed, "", sealedMtime
	default:
		return StatusPlaintext, plainMtime, ""
	}
}

// calculateStatusSummary calculates the counts of files by status.
func calculateStatusSummary(files []FileStatusInfo) StatusSummary {
	var summary StatusSummary
	for _, file := range files {
		switch file.Status {
		case StatusSealed:
			summary.Sealed++
		case StatusPlaintext:
			summary.Plaintext++
		case StatusConflict:
			summary.Conflict++
		}
	}
	return summary
}
