package dotenv

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SealedSuffix is appended to an env file's path to name its encrypted copy.
const SealedSuffix = ".sealed"

// SealedPath returns the encrypted counterpart of a plaintext env file path.
func SealedPath(envPath string) string {
	return envPath + SealedSuffix
}

// PlainPath returns the plaintext counterpart of a sealed file path.
func PlainPath(sealedPath string) string {
	return strings.TrimSuffix(sealedPath, SealedSuffix)
}

// IsEnvFile reports whether path names a plaintext env file.
func IsEnvFile(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".env") && !strings.HasSuffix(base, SealedSuffix)
}

// IsSealedFile reports whether path names a sealed env file.
func IsSealedFile(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".env") && strings.HasSuffix(base, SealedSuffix)
}

// ResolveFiles takes user-provided paths/globs and returns matching files.
// If patterns is empty, returns nil (caller should use default behavior).
// sealed=false finds plaintext .env* files, sealed=true finds *.sealed files.
func ResolveFiles(patterns []string, projectPath string, sealed bool) ([]string, error) {
	if len(patterns) == 0 {
		// No patterns provided, caller should use default behavior.
		return nil, nil
	}

	var files []string
	seen := make(map[string]bool) // Deduplicate.

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, projectPath, sealed)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no matching files found")
	}

	return files, nil
}

func resolvePattern(pattern string, projectPath string, sealed bool) ([]string, error) {
	// Convert relative patterns to absolute paths based on project path.
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(projectPath, pattern)
	}

	// Check if it's a directory.
	info, err := os.Stat(absPattern)
	if err == nil && info.IsDir() {
		return FindFiles(absPattern, sealed)
	}

	// Check if it contains glob characters.
	if strings.ContainsAny(pattern, "*?[") {
		return expandGlob(pattern, projectPath, sealed)
	}

	// Treat as literal file path.
	if _, err := os.Stat(absPattern); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", pattern)
	}

	// Validate that the file matches the expected type.
	if !sealed && !IsEnvFile(absPattern) {
		return nil, fmt.Errorf("file is not a .env file: %s", pattern)
	}
	if sealed && !IsSealedFile(absPattern) {
		return nil, fmt.Errorf("file is not a %s file: %s", SealedSuffix, pattern)
	}

	return []string{absPattern}, nil
}

func expandGlob(pattern string, projectPath string, sealed bool) ([]string, error) {
	// Use doublestar for ** support.
	absPattern := pattern
	if !filepath.IsAbs(pattern) {
		absPattern = filepath.Join(projectPath, pattern)
	}

	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	// Filter to only include appropriate file types.
	var filtered []string
	for _, m := range matches {
		// Skip directories.
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}

		// Skip files inside the .envseal directory.
		if isInProjectDir(m) {
			continue
		}

		if !sealed && IsEnvFile(m) {
			filtered = append(filtered, m)
		} else if sealed && IsSealedFile(m) {
			filtered = append(filtered, m)
		}
	}

	return filtered, nil
}

// FindFiles walks rootDir and returns every env file of the requested kind.
// The .envseal directory is never searched.
func FindFiles(rootDir string, sealed bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed while walking directory: %w", err)
		}
		if d.IsDir() {
			if d.Name() == ".envseal" {
				return filepath.SkipDir
			}
			return nil
		}

		// Skip irregular files such as sockets, pipes, devices, etc
		if !d.Type().IsRegular() {
			return nil
		}

		if !sealed && IsEnvFile(path) {
			files = append(files, path)
		} else if sealed && IsSealedFile(path) {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func isInProjectDir(path string) bool {
	// Check if any component of the path is .envseal.
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, part := range parts {
		if part == ".envseal" {
			return true
		}
	}
	return false
}
