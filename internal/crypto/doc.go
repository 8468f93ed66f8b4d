// Package crypto provides the cryptographic operations behind the vault
// data source.
//
// Item encryption uses AES-256-GCM with a 12-byte random nonce per
// operation. Keys are derived from the vault password via
// PBKDF2-HMAC-SHA256 with a 32-byte random salt and 210,000 iterations by
// default (OWASP minimum recommendation).
//
// Memory safety: zero sensitive buffers with ClearBytes after use and call
// Cipher.Destroy when an authenticated session ends.
package crypto
