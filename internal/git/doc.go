// Package git checks whether the vault database is exposed through git.
// The vault is encrypted, but committing it still publishes the KDF salt
// and the full ciphertext history, so status warns about it.
package git
