package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func testCipher(t *testing.T, password string) *Cipher {
	t.Helper()
	kdf, err := NewKDF(1000)
	if err != nil {
		t.Fatalf("NewKDF failed: %v", err)
	}
	return NewCipher(kdf.DeriveKey([]byte(password)))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := testCipher(t, "password")
	defer c.Destroy()

	plaintext := []byte("the quick brown fox")
	ciphertext, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Error("ciphertext contains the plaintext")
	}

	got, err := c.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("round-trip mismatch: got %q", got)
	}
}

func TestDecryptTampered(t *testing.T) {
	c := testCipher(t, "password")
	defer c.Destroy()

	ciphertext, err := c.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xff

	if _, err := c.Decrypt(ciphertext); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDecryptTooShort(t *testing.T) {
	c := testCipher(t, "password")
	defer c.Destroy()

	if _, err := c.Decrypt([]byte("short")); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	c1 := testCipher(t, "password")
	defer c1.Destroy()
	c2 := testCipher(t, "password") // different salt, different key
	defer c2.Destroy()

	ciphertext, err := c1.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := c2.Decrypt(ciphertext); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}

func TestKDFIsDeterministic(t *testing.T) {
	kdf, err := NewKDF(1000)
	if err != nil {
		t.Fatalf("NewKDF failed: %v", err)
	}

	k1 := kdf.DeriveKey([]byte("password"))
	k2 := kdf.DeriveKey([]byte("password"))
	if !bytes.Equal(k1, k2) {
		t.Error("same password and salt should derive the same key")
	}

	k3 := kdf.DeriveKey([]byte("other"))
	if bytes.Equal(k1, k3) {
		t.Error("different passwords should derive different keys")
	}
}

func TestNewKDFDefaults(t *testing.T) {
	kdf, err := NewKDF(0)
	if err != nil {
		t.Fatalf("NewKDF failed: %v", err)
	}
	if kdf.Iterations != DefaultIters {
		t.Errorf("expected %d iterations, got %d", DefaultIters, kdf.Iterations)
	}
	if len(kdf.Salt) != SaltSize {
		t.Errorf("expected %d byte salt, got %d", SaltSize, len(kdf.Salt))
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte("sensitive")
	ClearBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not cleared", i)
		}
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte("abc"), []byte("abc")) {
		t.Error("equal slices should compare true")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abd")) {
		t.Error("different slices should compare false")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("ab")) {
		t.Error("different lengths should compare false")
	}
}
