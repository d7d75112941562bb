// Package crypto implements envseal's key derivation and line cipher.
//
// # Key Derivation
//
// DeriveKey stretches a passphrase or secret key string into a 32-byte cipher
// key with scrypt over a fixed, hard-coded salt. The encrypted file format
// persists no salt, so the same passphrase must always reproduce the same
// wrapping key. The fixed salt trades rainbow-table resistance across
// deployments for that determinism.
//
// # Line Cipher
//
// Seal encrypts one line of text under AES-256-CBC with PKCS#7 padding and a
// fresh random 16-byte IV per call, returning a self-contained token:
//
//	hex(iv):hex(ciphertext)
//
// Open reverses it. There is no authentication tag; corruption is caught only
// incidentally when padding fails to validate, and a wrong key is
// indistinguishable from corrupted ciphertext. Callers that need integrity
// must layer it elsewhere.
//
// Derived keys and tokens are ephemeral. Nothing in this package caches or
// persists key material.
package crypto
