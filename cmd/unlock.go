package cmd

import (
	"fmt"
	"os"

	"github.com/live-labs/keychain/internal/crypto"
	"github.com/live-labs/keychain/internal/keychain"
	"github.com/live-labs/keychain/internal/keyring"
)

// Unlock verifies the vault password and, when remember is set and the
// keyring is enabled, caches it in the OS keyring so later commands do not
// prompt.
func Unlock(remember bool) {
	v, cfg := openVault()
	defer v.Close()

	kc := keychain.New(v)

	password := passwordFromEnv()
	if password == nil {
		var err error
		password, err = readPassword("Enter password: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
	defer crypto.ClearBytes(password)

	if err := kc.Unlock(password); err != nil {
		HandleError(err)
	}

	if remember && cfg.UseKeyring {
		vaultID, err := v.VaultID()
		if err != nil {
			HandleError(err)
		}
		if err := keyring.SavePassword(vaultID, string(password)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save password to keyring: %s\n", err)
		} else {
			fmt.Println("Password saved to keyring")
		}
	}

	fmt.Println("Keychain unlocked")
}
