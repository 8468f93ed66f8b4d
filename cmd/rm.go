package cmd

import (
	"fmt"

	"github.com/live-labs/keychain/internal/keychain"
)

// Remove deletes an item resolved by id or name.
func Remove(query string) {
	v, cfg := openVault()
	defer v.Close()

	kc := keychain.New(v)
	unlockOrExit(kc, v, cfg)

	item, err := findItem(kc, query)
	if err != nil {
		HandleError(err)
	}

	if err := kc.Remove(item.ID); err != nil {
		HandleError(err)
	}

	fmt.Printf("Removed item %s\n", item.ID)
}
