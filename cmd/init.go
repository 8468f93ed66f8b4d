package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/live-labs/keychain/internal/crypto"
	"github.com/live-labs/keychain/internal/keychain"
	"github.com/live-labs/keychain/internal/vault"
)

// Init creates and initializes the vault. iterations overrides the PBKDF2
// iteration count when positive; zero falls back to the configured or
// built-in default.
func Init(iterations int) {
	v, cfg := openVault()
	defer v.Close()

	kc := keychain.New(v)
	if kc.IsInitialized() {
		HandleError(keychain.ErrAlreadyInitialized)
	}

	password, err := passwordFromEnvOrConfirm()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(password)

	if iterations <= 0 {
		iterations = cfg.KDFIterations
	}
	initCfg := keychain.Config{}
	if iterations > 0 {
		initCfg[vault.IterationsConfigKey] = strconv.Itoa(iterations)
	}

	if err := kc.Init(password, initCfg); err != nil {
		HandleError(err)
	}

	fmt.Printf("Initialized keychain at %s\n", v.Path())
}

// passwordFromEnvOrConfirm reads the new password from the environment or
// prompts for it twice.
func passwordFromEnvOrConfirm() ([]byte, error) {
	if password := passwordFromEnv(); password != nil {
		return password, nil
	}
	return readPasswordConfirm()
}
