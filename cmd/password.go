package cmd

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/live-labs/keychain/internal/crypto"
)

// readPassword reads a password from the terminal without echoing
func readPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// readPasswordConfirm reads a password twice and ensures both entries match
func readPasswordConfirm() ([]byte, error) {
	password1, err := readPassword("Enter password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, fmt.Errorf("passwords do not match")
	}

	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// passwordFromEnv reads the password from KEYCHAIN_PASSWORD
func passwordFromEnv() []byte {
	password := os.Getenv("KEYCHAIN_PASSWORD")
	if password == "" {
		return nil
	}
	// Copy so ClearBytes never touches the env value
	result := make([]byte, len(password))
	copy(result, []byte(password))
	return result
}
