package cmd

import (
	"fmt"
	"os"

	"github.com/live-labs/keychain/internal/crypto"
	"github.com/live-labs/keychain/internal/keychain"
)

// Add stores a new item. The secret is read from the terminal without echo.
func Add(name, username, url, notes string) {
	v, cfg := openVault()
	defer v.Close()

	kc := keychain.New(v)
	unlockOrExit(kc, v, cfg)

	secret, err := readPassword("Secret: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(secret)

	item := kc.CreateItem()
	item.Name = name
	item.Username = username
	item.Secret = string(secret)
	item.URL = url
	item.Notes = notes

	if err := kc.Append(item); err != nil {
		HandleError(err)
	}

	fmt.Printf("Added item %s\n", item.ID)
}
