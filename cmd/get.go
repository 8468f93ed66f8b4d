package cmd

import (
	"fmt"

	"github.com/live-labs/keychain/internal/keychain"
)

// Get prints an item resolved by id or name. The secret stays hidden
// unless showSecret is set.
func Get(query string, showSecret bool) {
	v, cfg := openVault()
	defer v.Close()

	kc := keychain.New(v)
	unlockOrExit(kc, v, cfg)

	item, err := findItem(kc, query)
	if err != nil {
		HandleError(err)
	}

	fmt.Print(renderItem(item, showSecret))
}

// renderItem formats an item as "field: value" lines. Empty fields are
// omitted; the secret is masked unless show is set.
func renderItem(item *keychain.Item, show bool) string {
	out := fmt.Sprintf("id: %s\n", item.ID)
	if item.Name != "" {
		out += fmt.Sprintf("name: %s\n", item.Name)
	}
	if item.Username != "" {
		out += fmt.Sprintf("username: %s\n", item.Username)
	}
	if item.Secret != "" {
		secret := item.Secret
		if !show {
			secret = "(hidden)"
		}
		out += fmt.Sprintf("secret: %s\n", secret)
	}
	if item.URL != "" {
		out += fmt.Sprintf("url: %s\n", item.URL)
	}
	if item.Notes != "" {
		out += fmt.Sprintf("notes: %s\n", item.Notes)
	}
	return out
}
