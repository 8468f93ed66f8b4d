package keychain

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"testing"
)

// fakeSource is a scriptable in-memory DataSource for facade tests.
type fakeSource struct {
	initialized   bool
	authenticated bool
	password      []byte
	cfg           Config
	items         map[string]*Item

	initCalls   int
	saveCalls   int
	deauthCalls int
}

func newFakeSource() *fakeSource {
	return &fakeSource{items: make(map[string]*Item)}
}

func (f *fakeSource) IsInitialized() bool { return f.initialized }

func (f *fakeSource) Init(password []byte, cfg Config) error {
	f.initCalls++
	if f.initialized {
		return ErrAlreadyInitialized
	}
	f.initialized = true
	f.password = bytes.Clone(password)
	f.cfg = maps.Clone(cfg)
	return nil
}

func (f *fakeSource) IsAuthenticated() bool { return f.authenticated }

func (f *fakeSource) Authenticate(password []byte) error {
	if !f.initialized {
		return ErrNotInitialized
	}
	if !bytes.Equal(password, f.password) {
		return ErrWrongPassword
	}
	f.authenticated = true
	return nil
}

func (f *fakeSource) Deauthenticate() {
	f.deauthCalls++
	f.authenticated = false
}

func (f *fakeSource) Item(id string) (*Item, error) {
	if !f.authenticated {
		return nil, ErrUnauthenticated
	}
	item, ok := f.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item.Clone(), nil
}

func (f *fakeSource) CreateItem() *Item { return NewItem() }

func (f *fakeSource) SaveItem(item *Item) error {
	f.saveCalls++
	if !f.authenticated {
		return ErrUnauthenticated
	}
	f.items[item.ID] = item.Clone()
	return nil
}

func (f *fakeSource) RemoveItem(id string) error {
	if !f.authenticated {
		return ErrUnauthenticated
	}
	if _, ok := f.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeSource) SetPassword(newPassword []byte) error {
	if !f.authenticated {
		return ErrUnauthenticated
	}
	f.password = bytes.Clone(newPassword)
	return nil
}

func (f *fakeSource) Items() iter.Seq2[*Item, error] {
	return func(yield func(*Item, error) bool) {
		if !f.authenticated {
			yield(nil, ErrUnauthenticated)
			return
		}
		for _, id := range slices.Sorted(maps.Keys(f.items)) {
			if !yield(f.items[id].Clone(), nil) {
				return
			}
		}
	}
}

// unlockedKeychain returns a keychain over an initialized, unlocked fake.
func unlockedKeychain(t *testing.T) (*Keychain, *fakeSource) {
	t.Helper()
	ds := newFakeSource()
	ds.initialized = true
	ds.password = []byte("rightpassword")
	kc := New(ds)
	if err := kc.Unlock([]byte("rightpassword")); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	return kc, ds
}

func TestNewStartsLocked(t *testing.T) {
	ds := newFakeSource()
	ds.initialized = true
	kc := New(ds)

	if !kc.IsLocked() {
		t.Error("fresh keychain should be locked")
	}
}

func TestNewDeauthenticatesLeftoverSession(t *testing.T) {
	ds := newFakeSource()
	ds.initialized = true
	ds.authenticated = true

	kc := New(ds)
	if !kc.IsLocked() {
		t.Error("keychain should be locked even over a pre-authenticated source")
	}
	if ds.deauthCalls == 0 {
		t.Error("construction should deauthenticate the data source")
	}
}

func TestUnlockWithRightPassword(t *testing.T) {
	ds := newFakeSource()
	ds.initialized = true
	ds.password = []byte("rightpassword")
	kc := New(ds)

	if err := kc.Unlock([]byte("rightpassword")); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if kc.IsLocked() {
		t.Error("keychain should be unlocked")
	}
}

func TestUnlockWithWrongPassword(t *testing.T) {
	ds := newFakeSource()
	ds.initialized = true
	ds.password = []byte("rightpassword")
	kc := New(ds)

	if err := kc.Unlock([]byte("wrong")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
	if !kc.IsLocked() {
		t.Error("keychain should stay locked after a failed unlock")
	}
}

func TestUnlockUninitialized(t *testing.T) {
	kc := New(newFakeSource())

	if err := kc.Unlock([]byte("somepassword")); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestLockIsIdempotent(t *testing.T) {
	kc, _ := unlockedKeychain(t)

	kc.Lock()
	if !kc.IsLocked() {
		t.Error("keychain should be locked after Lock")
	}
	kc.Lock()
	if !kc.IsLocked() {
		t.Error("Lock on a locked keychain should keep it locked")
	}
}

func TestInitDelegatesToDataSource(t *testing.T) {
	ds := newFakeSource()
	kc := New(ds)

	cfg := Config{"kdf_iterations": "1000"}
	if err := kc.Init([]byte("somepassword"), cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if ds.initCalls != 1 {
		t.Errorf("expected 1 init call, got %d", ds.initCalls)
	}
	if !kc.IsInitialized() {
		t.Error("keychain should report initialized")
	}
	if ds.cfg["kdf_iterations"] != "1000" {
		t.Error("config should be forwarded verbatim")
	}
}

func TestInitIsOneShot(t *testing.T) {
	ds := newFakeSource()
	kc := New(ds)

	if err := kc.Init([]byte("p1"), nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := kc.Init([]byte("p2"), nil); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
	// The failed second call must not reach the data source
	if ds.initCalls != 1 {
		t.Errorf("expected 1 init call, got %d", ds.initCalls)
	}
	if !bytes.Equal(ds.password, []byte("p1")) {
		t.Error("backend state from the first init should be intact")
	}
}

func TestItemAccessWhileLocked(t *testing.T) {
	ds := newFakeSource()
	ds.initialized = true
	kc := New(ds)

	if _, err := kc.Item("some_id"); !errors.Is(err, ErrLocked) {
		t.Errorf("Item: expected ErrLocked, got %v", err)
	}
	if err := kc.SetPassword([]byte("new")); !errors.Is(err, ErrLocked) {
		t.Errorf("SetPassword: expected ErrLocked, got %v", err)
	}
	for _, err := range kc.Items() {
		if !errors.Is(err, ErrLocked) {
			t.Errorf("Items: expected ErrLocked, got %v", err)
		}
	}
}

func TestSaveItemNormalizesUnauthenticated(t *testing.T) {
	ds := newFakeSource()
	ds.initialized = true
	kc := New(ds)

	item := &Item{ID: "x"}
	if err := kc.SaveItem(item); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}
	// The rejection must come from the data source, not a pre-check
	if ds.saveCalls != 1 {
		t.Errorf("expected the save to be delegated, got %d calls", ds.saveCalls)
	}
}

func TestRemoveNormalizesUnauthenticated(t *testing.T) {
	ds := newFakeSource()
	ds.initialized = true
	kc := New(ds)

	if err := kc.Remove("x"); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}
}

func TestAppendRoundTrip(t *testing.T) {
	kc, _ := unlockedKeychain(t)

	item := &Item{ID: "new_item_id", Name: "example", Secret: "hunter2"}
	if err := kc.Append(item); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	got, err := kc.Item("new_item_id")
	if err != nil {
		t.Fatalf("Item failed: %v", err)
	}
	if got.ID != item.ID || got.Name != item.Name || got.Secret != item.Secret {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, item)
	}
	if !kc.Contains(item) {
		t.Error("keychain should contain the appended item")
	}
}

func TestContainsUnknownItem(t *testing.T) {
	kc, _ := unlockedKeychain(t)

	if kc.Contains(&Item{ID: "missing"}) {
		t.Error("keychain should not contain an unsaved item")
	}
	if kc.Contains(nil) {
		t.Error("nil item is never contained")
	}
}

func TestItemNotFoundPassesThrough(t *testing.T) {
	kc, _ := unlockedKeychain(t)

	if _, err := kc.Item("missing"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCreateItemDelegates(t *testing.T) {
	kc, ds := unlockedKeychain(t)

	item := kc.CreateItem()
	if item == nil || item.ID == "" {
		t.Fatal("CreateItem should return a blank item with an id")
	}
	// Creation does not persist
	if _, ok := ds.items[item.ID]; ok {
		t.Error("created item should not be stored until SaveItem")
	}
}

func TestItemsIteration(t *testing.T) {
	kc, _ := unlockedKeychain(t)

	for i := range 3 {
		item := kc.CreateItem()
		item.Name = fmt.Sprintf("item-%d", i)
		if err := kc.SaveItem(item); err != nil {
			t.Fatalf("SaveItem failed: %v", err)
		}
	}

	count := 0
	for item, err := range kc.Items() {
		if err != nil {
			t.Fatalf("iteration error: %v", err)
		}
		if item.ID == "" {
			t.Error("iterated item has no id")
		}
		count++
	}
	if count != 3 {
		t.Errorf("expected 3 items, got %d", count)
	}
}

func TestItemsIsRestartable(t *testing.T) {
	kc, _ := unlockedKeychain(t)

	seq := kc.Items()

	if err := kc.SaveItem(&Item{ID: "a"}); err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}

	// A sequence obtained earlier still sees the new item: each range
	// re-reads the backend.
	count := 0
	for _, err := range seq {
		if err != nil {
			t.Fatalf("iteration error: %v", err)
		}
		count++
	}
	if count != 1 {
		t.Errorf("expected 1 item on first pass, got %d", count)
	}

	// And it re-checks lock state too.
	kc.Lock()
	for _, err := range seq {
		if !errors.Is(err, ErrLocked) {
			t.Errorf("expected ErrLocked after locking, got %v", err)
		}
	}
}

func TestSetPasswordWhenUnlocked(t *testing.T) {
	kc, ds := unlockedKeychain(t)

	if err := kc.SetPassword([]byte("newpassword")); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if !bytes.Equal(ds.password, []byte("newpassword")) {
		t.Error("new password should be delegated to the data source")
	}
}

func TestLockUnlockCycles(t *testing.T) {
	kc, _ := unlockedKeychain(t)

	for range 3 {
		kc.Lock()
		if !kc.IsLocked() {
			t.Fatal("keychain should be locked")
		}
		if err := kc.Unlock([]byte("rightpassword")); err != nil {
			t.Fatalf("Unlock failed: %v", err)
		}
		if kc.IsLocked() {
			t.Fatal("keychain should be unlocked")
		}
	}
}
