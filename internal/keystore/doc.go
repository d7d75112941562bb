// Package keystore persists the project secret key.
//
// The secret key is the long-lived credential that env file contents are
// sealed under. Key lifecycle policy (set-once, rotation verification) lives
// in the workflows layer; this package only loads, saves, and generates keys.
//
// Store is the persistence interface. EnvFile is the production
// implementation backed by a file inside the project's .envseal directory.
// Memory is an in-process implementation for tests.
package keystore
