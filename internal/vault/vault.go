package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/live-labs/keychain/internal/crypto"
	"github.com/live-labs/keychain/internal/keychain"
)

const passwordCheckString = "keychain-password-check"

// IterationsConfigKey selects the PBKDF2 iteration count at Init time.
const IterationsConfigKey = "kdf_iterations"

// Vault is the file-backed keychain data source. A single derived key held
// in memory represents the authenticated session; all durable state lives
// in the BBolt database.
//
// Vault implements keychain.DataSource.
type Vault struct {
	path        string
	store       *store
	enc         *crypto.Cipher
	initialized bool
}

// Open opens (or creates) a vault database at path and reads its
// initialization state.
func Open(path string) (*Vault, error) {
	st, err := openStore(path)
	if err != nil {
		return nil, err
	}

	initialized, err := st.isInitialized()
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to read vault state: %w", err)
	}

	return &Vault{path: path, store: st, initialized: initialized}, nil
}

// Close deauthenticates and releases the database.
func (v *Vault) Close() error {
	v.Deauthenticate()
	return v.store.close()
}

// Path returns the vault database path.
func (v *Vault) Path() string {
	return v.path
}

// IsInitialized reports whether the vault has an established password.
func (v *Vault) IsInitialized() bool {
	return v.initialized
}

// Init establishes the vault password. cfg may carry IterationsConfigKey to
// override the PBKDF2 iteration count.
func (v *Vault) Init(password []byte, cfg keychain.Config) error {
	if v.initialized {
		return keychain.ErrAlreadyInitialized
	}

	iterations := 0
	if raw, ok := cfg[IterationsConfigKey]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s value %q", IterationsConfigKey, raw)
		}
		iterations = n
	}

	kdf, err := crypto.NewKDF(iterations)
	if err != nil {
		return fmt.Errorf("failed to create KDF: %w", err)
	}

	if err := v.store.initialize(kdf.Salt, uint32(kdf.Iterations), uuid.NewString()); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	enc := crypto.NewCipher(kdf.DeriveKey(password))
	defer enc.Destroy()

	if err := v.writeCheck(enc); err != nil {
		return err
	}

	v.initialized = true
	return nil
}

// IsAuthenticated reports whether an unlocked session is active.
func (v *Vault) IsAuthenticated() bool {
	return v.enc != nil
}

// Authenticate verifies the password against the stored checksum and opens
// a session. A mismatch fails with keychain.ErrWrongPassword.
func (v *Vault) Authenticate(password []byte) error {
	if !v.initialized {
		return keychain.ErrNotInitialized
	}

	kdf, err := v.loadKDF()
	if err != nil {
		return err
	}

	enc := crypto.NewCipher(kdf.DeriveKey(password))

	encCheck, err := v.store.getCheck()
	if err != nil {
		enc.Destroy()
		return keychain.ErrWrongPassword
	}
	check, err := enc.Decrypt(encCheck)
	if err != nil {
		enc.Destroy()
		return keychain.ErrWrongPassword
	}
	expected := sha256.Sum256([]byte(passwordCheckString))
	if string(check) != hex.EncodeToString(expected[:]) {
		enc.Destroy()
		return keychain.ErrWrongPassword
	}

	v.Deauthenticate()
	v.enc = enc
	return nil
}

// Deauthenticate ends the session and clears the derived key. Idempotent.
func (v *Vault) Deauthenticate() {
	if v.enc != nil {
		v.enc.Destroy()
		v.enc = nil
	}
}

// Item decrypts a stored item by id.
func (v *Vault) Item(id string) (*keychain.Item, error) {
	if v.enc == nil {
		return nil, keychain.ErrUnauthenticated
	}

	data, err := v.store.getItem(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read item: %w", err)
	}
	if data == nil {
		return nil, keychain.ErrItemNotFound
	}

	plaintext, err := v.enc.Decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt item %s: %w", id, err)
	}
	defer crypto.ClearBytes(plaintext)

	var item keychain.Item
	if err := json.Unmarshal(plaintext, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item %s: %w", id, err)
	}
	return &item, nil
}

// CreateItem returns a new unsaved item with a fresh id.
func (v *Vault) CreateItem() *keychain.Item {
	return keychain.NewItem()
}

// SaveItem encrypts and persists an item keyed by its id.
func (v *Vault) SaveItem(item *keychain.Item) error {
	if v.enc == nil {
		return keychain.ErrUnauthenticated
	}
	if item == nil || item.ID == "" {
		return fmt.Errorf("item has no id")
	}

	plaintext, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	defer crypto.ClearBytes(plaintext)

	data, err := v.enc.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt item: %w", err)
	}
	if err := v.store.putItem(item.ID, data); err != nil {
		return fmt.Errorf("failed to store item: %w", err)
	}
	return v.store.touchModified()
}

// RemoveItem deletes a stored item by id.
func (v *Vault) RemoveItem(id string) error {
	if v.enc == nil {
		return keychain.ErrUnauthenticated
	}

	existed, err := v.store.deleteItem(id)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	if !existed {
		return keychain.ErrItemNotFound
	}
	return v.store.touchModified()
}

// SetPassword re-encrypts the checksum and every item under a key derived
// from the new password. Requires an authenticated session; the session
// stays open under the new key.
func (v *Vault) SetPassword(newPassword []byte) error {
	if v.enc == nil {
		return keychain.ErrUnauthenticated
	}

	// Decrypt everything with the current key first so a bad record aborts
	// the change before anything is rewritten.
	ids, err := v.store.itemIDs()
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	plaintexts := make(map[string][]byte, len(ids))
	defer func() {
		for _, p := range plaintexts {
			crypto.ClearBytes(p)
		}
	}()
	for _, id := range ids {
		data, err := v.store.getItem(id)
		if err != nil {
			return fmt.Errorf("failed to read item %s: %w", id, err)
		}
		plaintext, err := v.enc.Decrypt(data)
		if err != nil {
			return fmt.Errorf("failed to decrypt item %s: %w", id, err)
		}
		plaintexts[id] = plaintext
	}

	iterations, err := v.store.iterations()
	if err != nil {
		return fmt.Errorf("failed to read iterations: %w", err)
	}
	kdf, err := crypto.NewKDF(int(iterations))
	if err != nil {
		return fmt.Errorf("failed to create KDF: %w", err)
	}
	if err := v.store.setKDF(kdf.Salt, uint32(kdf.Iterations)); err != nil {
		return fmt.Errorf("failed to update KDF parameters: %w", err)
	}

	enc := crypto.NewCipher(kdf.DeriveKey(newPassword))

	if err := v.writeCheck(enc); err != nil {
		enc.Destroy()
		return err
	}
	for id, plaintext := range plaintexts {
		data, err := enc.Encrypt(plaintext)
		if err != nil {
			enc.Destroy()
			return fmt.Errorf("failed to re-encrypt item %s: %w", id, err)
		}
		if err := v.store.putItem(id, data); err != nil {
			enc.Destroy()
			return fmt.Errorf("failed to store item %s: %w", id, err)
		}
	}

	v.enc.Destroy()
	v.enc = enc
	return v.store.touchModified()
}

// Items returns a restartable sequence over the stored items in id order.
// Each range re-reads the database, so items saved or removed between
// iterations are reflected.
func (v *Vault) Items() iter.Seq2[*keychain.Item, error] {
	return func(yield func(*keychain.Item, error) bool) {
		if v.enc == nil {
			yield(nil, keychain.ErrUnauthenticated)
			return
		}
		ids, err := v.store.itemIDs()
		if err != nil {
			yield(nil, fmt.Errorf("failed to list items: %w", err))
			return
		}
		for _, id := range ids {
			item, err := v.Item(id)
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// ItemCount reports the number of stored items. No password required.
func (v *Vault) ItemCount() (int, error) {
	return v.store.itemCount()
}

// Modified reports the last vault modification time. No password required.
func (v *Vault) Modified() (time.Time, error) {
	return v.store.modified()
}

// Iterations reports the PBKDF2 iteration count. No password required.
func (v *Vault) Iterations() (uint32, error) {
	return v.store.iterations()
}

// VaultID returns the stable vault identifier used as the OS keyring
// account name.
func (v *Vault) VaultID() (string, error) {
	return v.store.vaultID()
}

// Compact reclaims unused database space.
func (v *Vault) Compact() error {
	return v.store.compact()
}

func (v *Vault) writeCheck(enc *crypto.Cipher) error {
	checksum := sha256.Sum256([]byte(passwordCheckString))
	data, err := enc.Encrypt([]byte(hex.EncodeToString(checksum[:])))
	if err != nil {
		return fmt.Errorf("failed to encrypt checksum: %w", err)
	}
	if err := v.store.putCheck(data); err != nil {
		return fmt.Errorf("failed to store checksum: %w", err)
	}
	return nil
}

func (v *Vault) loadKDF() (*crypto.KDF, error) {
	salt, err := v.store.salt()
	if err != nil {
		return nil, fmt.Errorf("failed to get salt: %w", err)
	}
	iterations, err := v.store.iterations()
	if err != nil {
		return nil, fmt.Errorf("failed to get iterations: %w", err)
	}
	return &crypto.KDF{Salt: salt, Iterations: int(iterations)}, nil
}
