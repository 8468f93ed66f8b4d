package cmd

import (
	"fmt"
)

// Compact reclaims unused vault space. Requires no password.
func Compact() {
	v, _ := openVault()
	defer v.Close()

	if err := v.Compact(); err != nil {
		HandleError(err)
	}

	fmt.Println("Vault compacted")
}
