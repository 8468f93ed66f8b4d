// Package vault implements the file-backed keychain data source on top of
// a BBolt database.
//
// Database structure uses three buckets:
//   - config: KDF parameters (salt, iterations), timestamps, vault ID
//     (unencrypted)
//   - items: per-item AES-256-GCM ciphertext keyed by item id
//   - private: encrypted password verification checksum
//
// The unencrypted config bucket lets `keychain status` report vault
// metadata without requiring a password. Item ids are random UUIDs, so the
// key space of the items bucket leaks nothing about the stored credentials.
//
// Authentication state is a derived key held in memory for the lifetime of
// a session; Deauthenticate destroys it. BBolt provides ACID transactions,
// file locking, and corruption detection.
package vault
