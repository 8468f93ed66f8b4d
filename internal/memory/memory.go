// Package memory implements an in-memory keychain data source. Nothing is
// persisted; it exists for tests and ephemeral keychains.
package memory

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/live-labs/keychain/internal/crypto"
	"github.com/live-labs/keychain/internal/keychain"
)

// Source is an in-memory keychain.DataSource. The password is kept only as
// a derived key for constant-time verification.
type Source struct {
	kdf           *crypto.KDF
	key           []byte
	cfg           keychain.Config
	authenticated bool
	items         map[string]*keychain.Item
}

// New creates an empty, uninitialized source.
func New() *Source {
	return &Source{items: make(map[string]*keychain.Item)}
}

func (s *Source) IsInitialized() bool {
	return s.kdf != nil
}

func (s *Source) Init(password []byte, cfg keychain.Config) error {
	if s.kdf != nil {
		return keychain.ErrAlreadyInitialized
	}
	kdf, err := crypto.NewKDF(0)
	if err != nil {
		return fmt.Errorf("failed to create KDF: %w", err)
	}
	s.kdf = kdf
	s.key = kdf.DeriveKey(password)
	s.cfg = maps.Clone(cfg)
	return nil
}

func (s *Source) IsAuthenticated() bool {
	return s.authenticated
}

func (s *Source) Authenticate(password []byte) error {
	if s.kdf == nil {
		return keychain.ErrNotInitialized
	}
	key := s.kdf.DeriveKey(password)
	defer crypto.ClearBytes(key)
	if !crypto.ConstantTimeCompare(key, s.key) {
		return keychain.ErrWrongPassword
	}
	s.authenticated = true
	return nil
}

func (s *Source) Deauthenticate() {
	s.authenticated = false
}

func (s *Source) Item(id string) (*keychain.Item, error) {
	if !s.authenticated {
		return nil, keychain.ErrUnauthenticated
	}
	item, ok := s.items[id]
	if !ok {
		return nil, keychain.ErrItemNotFound
	}
	return item.Clone(), nil
}

func (s *Source) CreateItem() *keychain.Item {
	return keychain.NewItem()
}

func (s *Source) SaveItem(item *keychain.Item) error {
	if !s.authenticated {
		return keychain.ErrUnauthenticated
	}
	if item == nil || item.ID == "" {
		return fmt.Errorf("item has no id")
	}
	s.items[item.ID] = item.Clone()
	return nil
}

func (s *Source) RemoveItem(id string) error {
	if !s.authenticated {
		return keychain.ErrUnauthenticated
	}
	if _, ok := s.items[id]; !ok {
		return keychain.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Source) SetPassword(newPassword []byte) error {
	if !s.authenticated {
		return keychain.ErrUnauthenticated
	}
	kdf, err := crypto.NewKDF(0)
	if err != nil {
		return fmt.Errorf("failed to create KDF: %w", err)
	}
	crypto.ClearBytes(s.key)
	s.kdf = kdf
	s.key = kdf.DeriveKey(newPassword)
	return nil
}

// Items iterates in id order so the sequence is deterministic, matching the
// file-backed source.
func (s *Source) Items() iter.Seq2[*keychain.Item, error] {
	return func(yield func(*keychain.Item, error) bool) {
		if !s.authenticated {
			yield(nil, keychain.ErrUnauthenticated)
			return
		}
		for _, id := range slices.Sorted(maps.Keys(s.items)) {
			if !yield(s.items[id].Clone(), nil) {
				return
			}
		}
	}
}
