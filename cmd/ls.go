package cmd

import (
	"fmt"

	"github.com/live-labs/keychain/internal/keychain"
)

// List prints all stored items, one per line.
func List() {
	v, cfg := openVault()
	defer v.Close()

	kc := keychain.New(v)
	unlockOrExit(kc, v, cfg)

	count := 0
	for item, err := range kc.Items() {
		if err != nil {
			HandleError(err)
		}
		line := item.ID
		if item.Name != "" {
			line += "  " + item.Name
		}
		if item.Username != "" {
			line += "  (" + item.Username + ")"
		}
		fmt.Println(line)
		count++
	}

	if count == 0 {
		fmt.Println("No items in keychain")
		fmt.Println("Run 'keychain add' to store one")
	}
}
