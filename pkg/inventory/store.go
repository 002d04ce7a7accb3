package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no item with the given ID lives in the category.
var ErrNotFound = errors.New("item not found")

// Store maps a category name to the ordered items stored there.
// Categories absent from the map are empty. A Store is not safe for
// concurrent use; callers serialize access.
type Store struct {
	items map[string][]Item
}

func NewStore() *Store {
	return &Store{items: make(map[string][]Item)}
}

// Add appends item to category, creating the sequence if needed. An item
// without an ID gets a new one. The stored item is returned.
func (s *Store) Add(category string, item Item) Item {
	if item.ID == "" {
		item.ID = NewID()
	}
	s.items[category] = append(s.items[category], item)
	return item
}

// Update replaces the item identified by id, keeping its position and ID.
func (s *Store) Update(category, id string, item Item) error {
	i := s.indexOf(category, id)
	if i < 0 {
		return fmt.Errorf("update %s/%s: %w", category, id, ErrNotFound)
	}
	item.ID = id
	s.items[category][i] = item
	return nil
}

// Delete removes the item identified by id. Items after it shift down by one.
func (s *Store) Delete(category, id string) error {
	i := s.indexOf(category, id)
	if i < 0 {
		return fmt.Errorf("delete %s/%s: %w", category, id, ErrNotFound)
	}
	seq := s.items[category]
	s.items[category] = append(seq[:i:i], seq[i+1:]...)
	return nil
}

// Get returns the item identified by id.
func (s *Store) Get(category, id string) (Item, error) {
	i := s.indexOf(category, id)
	if i < 0 {
		return Item{}, fmt.Errorf("get %s/%s: %w", category, id, ErrNotFound)
	}
	return s.items[category][i], nil
}

// ItemAt returns the item at a position within category.
func (s *Store) ItemAt(category string, index int) (Item, bool) {
	seq := s.items[category]
	if index < 0 || index >= len(seq) {
		return Item{}, false
	}
	return seq[index], true
}

// Items returns a copy of the category's sequence in insertion order.
func (s *Store) Items(category string) []Item {
	seq := s.items[category]
	out := make([]Item, len(seq))
	copy(out, seq)
	return out
}

func (s *Store) Count(category string) int {
	return len(s.items[category])
}

// Len returns the number of items across every category, orphans included.
func (s *Store) Len() int {
	n := 0
	for _, seq := range s.items {
		n += len(seq)
	}
	return n
}

// TotalPrice sums the prices in category. Empty or absent categories total zero.
func (s *Store) TotalPrice(category string) decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items[category] {
		total = total.Add(it.Price)
	}
	return total
}

// Categories returns every category key present in the store, sorted.
func (s *Store) Categories() []string {
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Orphans returns the keys that are not part of the static category list.
func (s *Store) Orphans() []string {
	var out []string
	for _, k := range s.Categories() {
		if !IsKnownCategory(k) {
			out = append(out, k)
		}
	}
	return out
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := NewStore()
	for k, seq := range s.items {
		cp := make([]Item, len(seq))
		copy(cp, seq)
		c.items[k] = cp
	}
	return c
}

// Reset replaces the whole content of s with a copy of other.
func (s *Store) Reset(other *Store) {
	s.items = other.Clone().items
}

func (s *Store) indexOf(category, id string) int {
	for i, it := range s.items[category] {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// MarshalJSON encodes the store as the snapshot document: an object keyed by
// category name whose values are item arrays.
func (s *Store) MarshalJSON() ([]byte, error) {
	out := make(map[string][]Item, len(s.items))
	for k, seq := range s.items {
		if seq == nil {
			seq = []Item{}
		}
		out[k] = seq
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the store content with the decoded snapshot. Items
// that carry no ID get a fresh one.
func (s *Store) UnmarshalJSON(data []byte) error {
	var m map[string][]Item
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if m == nil {
		m = make(map[string][]Item)
	}
	for k, seq := range m {
		for i := range seq {
			if seq[i].ID == "" {
				seq[i].ID = NewID()
			}
		}
		m[k] = seq
	}
	s.items = m
	return nil
}
