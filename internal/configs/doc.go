// Package configs manages project configuration for Envseal.
//
// Configuration is stored in TOML format inside the project's .envseal
// directory:
//
//   - Project config: .envseal/config.toml (project identity)
//   - Key store: .envseal/secret.env (the project secret key)
//
// # Project Configuration
//
// The project config stores the project's name, UUID, and creation time.
// The UUID is auto-generated by `envseal init` and identifies the project
// in audit log entries.
//
// # Settings
//
// ProjectEnvsealSettings holds the current project's resolved paths and
// identity. Call InitProjectSettings() before accessing it; it walks up the
// directory tree to find the nearest .envseal directory.
//
// # Runtime Overrides
//
// A handful of ENVSEAL_* environment variables override interactive
// behavior, mainly for CI use. See LoadRuntime.
package configs
