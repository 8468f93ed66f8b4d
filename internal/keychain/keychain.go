package keychain

import (
	"errors"
	"iter"
)

var (
	ErrNotInitialized     = errors.New("keychain not initialized")
	ErrAlreadyInitialized = errors.New("keychain already initialized")
	ErrWrongPassword      = errors.New("wrong password")
	ErrLocked             = errors.New("keychain locked")
	ErrUnauthenticated    = errors.New("data source not authenticated")
	ErrItemNotFound       = errors.New("item not found")
)

// Config carries data-source specific initialization options. The keychain
// forwards it verbatim to the data source and never interprets its keys.
type Config map[string]string

// DataSource is the storage backend the keychain guards. Implementations
// own all durable state and all authentication mechanics; the keychain only
// sequences and gates calls into it.
//
// Authenticate reports a password mismatch as ErrWrongPassword. SaveItem and
// RemoveItem report calls without a prior successful Authenticate as
// ErrUnauthenticated. Item reports an unknown id as ErrItemNotFound.
type DataSource interface {
	IsInitialized() bool
	Init(password []byte, cfg Config) error
	IsAuthenticated() bool
	Authenticate(password []byte) error
	Deauthenticate()
	Item(id string) (*Item, error)
	CreateItem() *Item
	SaveItem(item *Item) error
	RemoveItem(id string) error
	SetPassword(newPassword []byte) error
	// Items returns a restartable sequence over the currently stored items.
	// Each range re-reads the backend, so the sequence never goes stale
	// across lock/unlock cycles. Only valid while authenticated.
	Items() iter.Seq2[*Item, error]
}

// Keychain guards a single shared DataSource. It is not safe for concurrent
// use; callers sharing a data source between facades must serialize access
// themselves.
type Keychain struct {
	ds DataSource
}

// New wraps a data source in a keychain. The data source is deauthenticated
// so a fresh keychain always starts locked, whatever session the backend
// was left in.
func New(ds DataSource) *Keychain {
	ds.Deauthenticate()
	return &Keychain{ds: ds}
}

// Init establishes the keychain password on a fresh data source. The config
// is forwarded verbatim. Calling Init on an initialized data source fails
// with ErrAlreadyInitialized and leaves the backend untouched.
func (k *Keychain) Init(password []byte, cfg Config) error {
	if k.ds.IsInitialized() {
		return ErrAlreadyInitialized
	}
	return k.ds.Init(password, cfg)
}

// IsInitialized reports whether the data source has an established password.
func (k *Keychain) IsInitialized() bool {
	return k.ds.IsInitialized()
}

// Unlock authenticates against the data source. A wrong password is
// surfaced as ErrWrongPassword with the keychain still locked.
func (k *Keychain) Unlock(password []byte) error {
	if !k.ds.IsInitialized() {
		return ErrNotInitialized
	}
	return k.ds.Authenticate(password)
}

// Lock deauthenticates the data source. Idempotent.
func (k *Keychain) Lock() {
	k.ds.Deauthenticate()
}

// IsLocked reports whether item access is currently denied.
func (k *Keychain) IsLocked() bool {
	return !k.ds.IsAuthenticated()
}

// SetPassword changes the keychain password. Requires an unlocked keychain.
func (k *Keychain) SetPassword(newPassword []byte) error {
	if k.IsLocked() {
		return ErrLocked
	}
	return k.ds.SetPassword(newPassword)
}

// Item looks up a stored item by id. Fails with ErrLocked while locked and
// passes the data source's ErrItemNotFound through unchanged.
func (k *Keychain) Item(id string) (*Item, error) {
	if k.IsLocked() {
		return nil, ErrLocked
	}
	return k.ds.Item(id)
}

// Items iterates over all stored items. The sequence is restartable; each
// range checks the lock state again and re-reads the backend.
func (k *Keychain) Items() iter.Seq2[*Item, error] {
	return func(yield func(*Item, error) bool) {
		if k.IsLocked() {
			yield(nil, ErrLocked)
			return
		}
		for item, err := range k.ds.Items() {
			if errors.Is(err, ErrUnauthenticated) {
				err = ErrLocked
			}
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// CreateItem asks the data source for a new blank item. The item is not
// persisted until SaveItem.
func (k *Keychain) CreateItem() *Item {
	return k.ds.CreateItem()
}

// SaveItem persists an item. The lock state is not pre-checked here: the
// data source's own ErrUnauthenticated rejection is normalized to ErrLocked.
func (k *Keychain) SaveItem(item *Item) error {
	err := k.ds.SaveItem(item)
	if errors.Is(err, ErrUnauthenticated) {
		return ErrLocked
	}
	return err
}

// Append persists an item. Alias for SaveItem.
func (k *Keychain) Append(item *Item) error {
	return k.SaveItem(item)
}

// Remove deletes an item by id. ErrUnauthenticated from the data source is
// normalized to ErrLocked, like the save path.
func (k *Keychain) Remove(id string) error {
	err := k.ds.RemoveItem(id)
	if errors.Is(err, ErrUnauthenticated) {
		return ErrLocked
	}
	return err
}

// Contains reports whether an item with the same id is currently stored.
func (k *Keychain) Contains(item *Item) bool {
	if item == nil {
		return false
	}
	_, err := k.Item(item.ID)
	return err == nil
}
