// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments,
// capturing output, and running the CLI in-process.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"testing"

	"github.com/envseal/envseal/internal/configs"
)

// setupTestEnvironment changes into tempDir and restores the original state
// when the test finishes.
func setupTestEnvironment(t *testing.T, tempDir, originalWd string) {
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.ProjectEnvsealSettings = &configs.ProjectSettings{}
		ResetGlobalState()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// runEnvseal executes the CLI in-process with the given arguments, returning
// everything it printed. Command state is reset first so flag values from a
// previous invocation do not leak in.
func runEnvseal(args ...string) (string, error) {
	ResetGlobalState()
	return captureOutput(func() error {
		RootCmd.SetArgs(args)
		return RootCmd.Execute()
	})
}

// initializeProjectWithKey runs `envseal init` and `envseal key generate` in
// the current test directory, failing the test if either command errors.
func initializeProjectWithKey(t *testing.T) {
	if output, err := runEnvseal("init"); err != nil {
		t.Fatalf("Failed to initialize project: %v\nOutput: %s", err, output)
	}
	if output, err := runEnvseal("key", "generate"); err != nil {
		t.Fatalf("Failed to generate secret key: %v\nOutput: %s", err, output)
	}
}
