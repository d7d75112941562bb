// Package codec defines the on-disk framing of an encrypted env file and
// converts whole files between plaintext and encrypted form.
//
// # Encrypted File Format
//
//	SECRET_KEY=<hex-iv>:<hex-ciphertext>    header; wraps "ENV_SECURE_KEY=<secret>"
//	<blank and comment lines pass through unchanged>
//	<every other line becomes <hex-iv>:<hex-ciphertext>>
//
// The header is the only line encrypted under the passphrase-derived key.
// Body tokens are encrypted under a key derived from the secret key, one
// token per original data line, in original order. Decrypting returns the
// body only; the secret key re-enters the plaintext file through its own
// reserved assignment line, which is sealed into the body like any other
// data line and therefore never appears in plaintext inside an encrypted
// file.
//
// Both operations work on in-memory line slices and leave disk I/O to the
// caller.
package codec
