package cmd

import (
	"fmt"
	"os"

	"github.com/live-labs/keychain/internal/crypto"
	"github.com/live-labs/keychain/internal/keychain"
	"github.com/live-labs/keychain/internal/keyring"
)

// Passwd changes the vault password and re-encrypts all items.
func Passwd() {
	v, cfg := openVault()
	defer v.Close()

	kc := keychain.New(v)
	unlockOrExit(kc, v, cfg)

	newPassword, err := readPasswordConfirm()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(newPassword)

	if err := kc.SetPassword(newPassword); err != nil {
		HandleError(err)
	}

	// Keep the keyring in sync so the cached password does not go stale
	if cfg.UseKeyring {
		if vaultID, err := v.VaultID(); err == nil && keyring.HasPassword(vaultID) {
			if err := keyring.SavePassword(vaultID, string(newPassword)); err == nil {
				fmt.Println("Keyring updated with new password")
			}
		}
	}

	// Compact after rewriting every record
	if err := v.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Println("Password changed successfully")
}
