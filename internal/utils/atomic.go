package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a file by first writing a temp file in the
// same directory and then renaming it over the target path. Readers never
// observe a partially written file, and the original survives any failure
// before the rename.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Remove the temp file on any failure past this point.
	cleanup := func(cause error) error {
		tmp.Close()
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("%w (temp file %s left behind: %v)", cause, tmpPath, removeErr)
		}
		return cause
	}

	if err := tmp.Chmod(perm); err != nil {
		return cleanup(fmt.Errorf("failed to set temp file permissions: %w", err))
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return cleanup(fmt.Errorf("failed to close temp file: %w", err))
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("failed to rename file: %w (temp file %s left behind: %v)", err, tmpPath, removeErr)
		}
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
