package cmd

import (
	"fmt"

	"github.com/live-labs/keychain/internal/keychain"
	"github.com/live-labs/keychain/internal/keyring"
)

// Lock drops the cached password from the OS keyring and deauthenticates
// the data source, so the next item operation prompts again.
func Lock() {
	v, _ := openVault()
	defer v.Close()

	kc := keychain.New(v)
	kc.Lock()

	if vaultID, err := v.VaultID(); err == nil {
		if keyring.DeletePassword(vaultID) == nil {
			fmt.Println("Password removed from keyring")
		}
	}

	fmt.Println("Keychain locked")
}
