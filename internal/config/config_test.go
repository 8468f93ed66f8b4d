package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.VaultPath != filepath.Join(home, ".keychain") {
		t.Errorf("unexpected vault path: %s", cfg.VaultPath)
	}
	if !cfg.UseKeyring {
		t.Error("keyring should be enabled by default")
	}
	if cfg.KDFIterations != 0 {
		t.Errorf("expected no iteration override, got %d", cfg.KDFIterations)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KEYCHAIN_VAULT_PATH", "/tmp/other.keychain")
	t.Setenv("KEYCHAIN_USE_KEYRING", "false")
	t.Setenv("KEYCHAIN_KDF_ITERATIONS", "50000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.VaultPath != "/tmp/other.keychain" {
		t.Errorf("env override ignored: %s", cfg.VaultPath)
	}
	if cfg.UseKeyring {
		t.Error("KEYCHAIN_USE_KEYRING=false ignored")
	}
	if cfg.KDFIterations != 50000 {
		t.Errorf("KEYCHAIN_KDF_ITERATIONS ignored: %d", cfg.KDFIterations)
	}
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "keychain")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	content := "vault_path: /data/vault.keychain\nuse_keyring: false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.VaultPath != "/data/vault.keychain" {
		t.Errorf("config file ignored: %s", cfg.VaultPath)
	}
	if cfg.UseKeyring {
		t.Error("use_keyring from config file ignored")
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "keychain")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}
