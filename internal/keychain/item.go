package keychain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a stored credential record. The keychain itself only interprets
// the ID; every other field is the caller's concern.
type Item struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Username string    `json:"username,omitempty"`
	Secret   string    `json:"secret,omitempty"`
	URL      string    `json:"url,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// NewItem creates a blank item with a fresh id and timestamps.
func NewItem() *Item {
	now := time.Now()
	return &Item{
		ID:       uuid.NewString(),
		Created:  now,
		Modified: now,
	}
}

// Touch updates the modification timestamp.
func (i *Item) Touch() {
	i.Modified = time.Now()
}

// Clone returns a copy of the item. Data sources hand out clones so callers
// cannot mutate stored state behind the backend's back.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
