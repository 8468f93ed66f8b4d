package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/live-labs/keychain/internal/git"
	"github.com/live-labs/keychain/internal/keyring"
)

// Status prints vault information. Requires no password: everything shown
// comes from the unencrypted config bucket.
func Status() {
	v, cfg := openVault()
	defer v.Close()

	fmt.Printf("Vault: %s\n", v.Path())

	if !v.IsInitialized() {
		fmt.Println("State: not initialized")
		fmt.Println("Run 'keychain init' to create it")
		return
	}
	fmt.Println("State: initialized")

	if count, err := v.ItemCount(); err == nil {
		fmt.Printf("Items: %d\n", count)
	}
	if modified, err := v.Modified(); err == nil {
		fmt.Printf("Modified: %s\n", modified.Format("2006-01-02 15:04:05"))
	}
	if iterations, err := v.Iterations(); err == nil {
		fmt.Printf("Encryption: AES-256-GCM, PBKDF2 %d iterations\n", iterations)
	}

	if vaultID, err := v.VaultID(); err == nil {
		if cfg.UseKeyring && keyring.HasPassword(vaultID) {
			fmt.Println("Keyring: password stored")
		} else {
			fmt.Println("Keyring: password not stored")
		}
	}

	dir := filepath.Dir(v.Path())
	exposure := git.CheckExposure(dir, filepath.Base(v.Path()))
	if exposure.IsRepo {
		if exposure.VaultTracked {
			fmt.Println("warning: vault file is tracked by git")
		} else if !exposure.VaultIgnored {
			fmt.Println("warning: vault file is not in .gitignore")
		}
	}
}
