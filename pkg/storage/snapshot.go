package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sw33tLie/dispensa/pkg/inventory"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultKey is the key the whole inventory is stored under.
const DefaultKey = "foodInventoryData"

// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt inventory snapshot")

// Orphan is a snapshot key that matches no known category.
type Orphan struct {
	Category string
	Items    int
}

// Snapshots reads and writes the whole inventory as one serialized value.
type Snapshots struct {
	Backend Backend
	Key     string
}

func NewSnapshots(b Backend) *Snapshots {
	return &Snapshots{Backend: b, Key: DefaultKey}
}

// Raw returns the stored snapshot bytes, or nil when nothing was saved yet.
func (s *Snapshots) Raw(ctx context.Context) ([]byte, error) {
	raw, ok, err := s.Backend.Get(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("could not read snapshot %q: %w", s.Key, err)
	}
	if !ok {
		return nil, nil
	}
	return raw, nil
}

// Load returns the stored inventory. A missing snapshot yields an empty store.
func (s *Snapshots) Load(ctx context.Context) (*inventory.Store, error) {
	raw, err := s.Raw(ctx)
	if err != nil {
		return nil, err
	}
	store := inventory.NewStore()
	if raw == nil {
		return store, nil
	}
	if err := validate(raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, store); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return store, nil
}

// Save serializes the full store and overwrites the stored snapshot.
func (s *Snapshots) Save(ctx context.Context, store *inventory.Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}
	if err := s.Backend.Put(ctx, s.Key, data); err != nil {
		return fmt.Errorf("could not write snapshot %q: %w", s.Key, err)
	}
	return nil
}

// Orphans lists the stored categories that are not part of the static list.
func (s *Snapshots) Orphans(ctx context.Context) ([]Orphan, error) {
	raw, err := s.Raw(ctx)
	if err != nil || raw == nil {
		return nil, err
	}
	if err := validate(raw); err != nil {
		return nil, err
	}
	var out []Orphan
	gjson.ParseBytes(raw).ForEach(func(key, value gjson.Result) bool {
		if !inventory.IsKnownCategory(key.String()) {
			out = append(out, Orphan{Category: key.String(), Items: int(value.Get("#").Int())})
		}
		return true
	})
	return out, nil
}

// DropCategory removes an orphaned category and its items from the stored
// snapshot. Known categories cannot be dropped. It reports whether the
// category was present.
func (s *Snapshots) DropCategory(ctx context.Context, category string) (bool, error) {
	if inventory.IsKnownCategory(category) {
		return false, fmt.Errorf("%q is a known category and cannot be dropped", category)
	}
	raw, err := s.Raw(ctx)
	if err != nil || raw == nil {
		return false, err
	}
	if err := validate(raw); err != nil {
		return false, err
	}
	path := escapePath(category)
	if !gjson.GetBytes(raw, path).Exists() {
		return false, nil
	}
	updated, err := sjson.DeleteBytes(raw, path)
	if err != nil {
		return false, fmt.Errorf("could not drop %q: %w", category, err)
	}
	if err := s.Backend.Put(ctx, s.Key, updated); err != nil {
		return false, fmt.Errorf("could not write snapshot %q: %w", s.Key, err)
	}
	return true, nil
}

// escapePath quotes the characters gjson and sjson treat as path syntax.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validate(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("%w: invalid JSON", ErrCorruptSnapshot)
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return fmt.Errorf("%w: top-level value is not an object", ErrCorruptSnapshot)
	}
	return nil
}
