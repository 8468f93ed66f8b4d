package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/live-labs/keychain/internal/config"
	"github.com/live-labs/keychain/internal/crypto"
	"github.com/live-labs/keychain/internal/keychain"
	"github.com/live-labs/keychain/internal/keyring"
	"github.com/live-labs/keychain/internal/vault"
)

// openVault loads the configuration and opens the vault at the configured
// path. Exits on failure.
func openVault() (*vault.Vault, *config.Config) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(cfg.VaultPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create %s: %s\n", dir, err)
			os.Exit(1)
		}
	}

	v, err := vault.Open(cfg.VaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return v, cfg
}

// unlockOrExit unlocks the keychain using, in order: the KEYCHAIN_PASSWORD
// environment variable, the OS keyring (when enabled), and finally an
// interactive prompt. A stale keyring entry falls through to the prompt.
func unlockOrExit(kc *keychain.Keychain, v *vault.Vault, cfg *config.Config) {
	if password := passwordFromEnv(); password != nil {
		defer crypto.ClearBytes(password)
		if err := kc.Unlock(password); err != nil {
			HandleError(err)
		}
		return
	}

	if cfg.UseKeyring {
		if vaultID, err := v.VaultID(); err == nil {
			if stored, err := keyring.GetPassword(vaultID); err == nil {
				password := []byte(stored)
				err := kc.Unlock(password)
				crypto.ClearBytes(password)
				if err == nil {
					return
				}
				if !errors.Is(err, keychain.ErrWrongPassword) {
					HandleError(err)
				}
				// Stale keyring entry - fall through to the prompt
			}
		}
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if err := kc.Unlock(password); err != nil {
		HandleError(err)
	}
}

// HandleError prints a keychain error with a hint and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, keychain.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: keychain not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'keychain init' first\n")
	case errors.Is(err, keychain.ErrAlreadyInitialized):
		fmt.Fprintf(os.Stderr, "Error: keychain already initialized\n")
		fmt.Fprintf(os.Stderr, "Use 'keychain status' to see current state\n")
	case errors.Is(err, keychain.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: wrong password\n")
	case errors.Is(err, keychain.ErrLocked):
		fmt.Fprintf(os.Stderr, "Error: keychain is locked\n")
		fmt.Fprintf(os.Stderr, "Run 'keychain unlock' or enter the password when prompted\n")
	case errors.Is(err, keychain.ErrItemNotFound):
		fmt.Fprintf(os.Stderr, "Error: item not found\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// findItem resolves a query to a stored item, by id first and then by
// unique name.
func findItem(kc *keychain.Keychain, query string) (*keychain.Item, error) {
	item, err := kc.Item(query)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, keychain.ErrItemNotFound) {
		return nil, err
	}

	var matches []*keychain.Item
	for it, err := range kc.Items() {
		if err != nil {
			return nil, err
		}
		if it.Name == query {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return nil, keychain.ErrItemNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("name %q matches %d items, use the id", query, len(matches))
	}
}
