// Package config loads CLI configuration from file and environment.
//
// Sources, in increasing precedence: built-in defaults, the optional
// config file $HOME/.config/keychain/config.yaml, and KEYCHAIN_* environment
// variables (KEYCHAIN_VAULT_PATH, KEYCHAIN_USE_KEYRING,
// KEYCHAIN_KDF_ITERATIONS).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the CLI settings.
type Config struct {
	// VaultPath is the vault database file.
	VaultPath string `mapstructure:"vault_path"`
	// UseKeyring enables OS keyring password caching.
	UseKeyring bool `mapstructure:"use_keyring"`
	// KDFIterations overrides the PBKDF2 iteration count at init time.
	// Zero keeps the built-in default.
	KDFIterations int `mapstructure:"kdf_iterations"`
}

// Load reads the configuration.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}

	v := viper.New()
	v.SetDefault("vault_path", filepath.Join(home, ".keychain"))
	v.SetDefault("use_keyring", true)
	v.SetDefault("kdf_iterations", 0)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".config", "keychain"))

	v.SetEnvPrefix("KEYCHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; a malformed one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
