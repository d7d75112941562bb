// Package utils provides shared utility functions for the Envseal application.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # Filesystem Utilities
//
// Functions for working with the filesystem and project structure:
//   - FindProjectEnvsealRoot: walks up directories to find .envseal
//   - WriteFileAtomic: replaces a file via temp-write-then-rename
//   - FormatPaths: formats file paths for human-readable output
//
// # System Utilities
//
// Functions for interacting with the operating system:
//   - GetUsername: returns the current system username
//   - GetHostname: returns the system hostname
//
// # Project Utilities
//
// Functions for working with Envseal projects:
//   - GetProjectName: returns the current project's directory name
//
// # I/O Utilities
//
// Functions for reading from stdin and other I/O operations:
//   - ReadStdin: reads all data from standard input
//
// # Terminal Utilities
//
// Functions for terminal detection and interaction:
//   - IsTerminal: checks if a file descriptor is a terminal
//   - ReadPassphrase: prompts for hidden input on the controlling terminal
package utils
