// Package form drives the item dialog: it tracks whether the dialog is closed,
// creating a new item or editing an existing one, validates submitted fields
// and commits them to the inventory store.
package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sw33tLie/dispensa/internal/utils"
	"github.com/sw33tLie/dispensa/pkg/inventory"
)

const (
	AlertInvalid = "Per favore, compila tutti i campi correttamente."
	PromptDelete = "Sei sicuro di voler eliminare questo elemento?"
)

var (
	// ErrClosed is returned by Submit when no dialog is open.
	ErrClosed = errors.New("form is not open")
	// ErrUnknownCategory is returned when editing or deleting outside the
	// static categories. Orphaned items are read-only.
	ErrUnknownCategory = errors.New("unknown category")
)

type Mode int

const (
	Closed Mode = iota
	OpenCreate
	OpenEdit
)

func (m Mode) String() string {
	switch m {
	case Closed:
		return "closed"
	case OpenCreate:
		return "open-create"
	case OpenEdit:
		return "open-edit"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Fields holds the raw values of the dialog inputs.
type Fields struct {
	Name     string
	Category string
	Expiry   string
	Price    string
}

// State is a snapshot of the dialog. Category and ItemID are set in OpenEdit only.
type State struct {
	Mode     Mode
	Category string
	ItemID   string
	Fields   Fields
	Alert    string
}

// Saver persists the whole store after a mutation.
type Saver interface {
	Save(ctx context.Context, store *inventory.Store) error
}

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool

// ValidationError lists the fields a submit was rejected for.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// Controller owns the store for the session. Every operation runs under one
// mutex so handlers never observe a half-applied change.
type Controller struct {
	mu    sync.Mutex
	store *inventory.Store
	saver Saver
	state State
}

func NewController(store *inventory.Store, saver Saver) *Controller {
	return &Controller{store: store, saver: saver}
}

// Read calls fn with the store and the dialog state while holding the lock.
// fn must not retain or modify the store.
func (c *Controller) Read(fn func(store *inventory.Store, state State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.store, c.state)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OpenCreate opens an empty dialog for a new item.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{Mode: OpenCreate}
}

// OpenEdit opens the dialog pre-filled with the item's current values.
func (c *Controller) OpenEdit(category, id string) error {
	if !inventory.IsKnownCategory(category) {
		return fmt.Errorf("edit %q: %w", category, ErrUnknownCategory)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	it, err := c.store.Get(category, id)
	if err != nil {
		return err
	}
	c.state = State{
		Mode:     OpenEdit,
		Category: category,
		ItemID:   id,
		Fields: Fields{
			Name:     it.Name,
			Category: category,
			Expiry:   it.Expiry.String(),
			Price:    it.Price.String(),
		},
	}
	return nil
}

// Cancel discards the dialog input and closes it.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
}

// Submit validates f and commits it according to the current mode. On a
// validation error nothing is stored, the dialog stays open and shows the
// alert. When saving fails the store is rolled back and the dialog stays open.
func (c *Controller) Submit(ctx context.Context, f Fields) (inventory.Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state.Mode {
	case OpenCreate:
		item, err := parseFields(f, true)
		if err != nil {
			c.reject(f, err)
			return inventory.Item{}, err
		}
		category := strings.TrimSpace(f.Category)
		backup := c.store.Clone()
		stored := c.store.Add(category, item)
		if err := c.save(ctx, backup); err != nil {
			return inventory.Item{}, err
		}
		utils.Log.Debugf("[form] added %s to %s", stored.ID, category)
		c.state = State{}
		return stored, nil

	case OpenEdit:
		// The category of an edited item is fixed to the one it was opened from.
		f.Category = c.state.Category
		item, err := parseFields(f, false)
		if err != nil {
			c.reject(f, err)
			return inventory.Item{}, err
		}
		backup := c.store.Clone()
		if err := c.store.Update(c.state.Category, c.state.ItemID, item); err != nil {
			return inventory.Item{}, err
		}
		if err := c.save(ctx, backup); err != nil {
			return inventory.Item{}, err
		}
		item.ID = c.state.ItemID
		utils.Log.Debugf("[form] updated %s in %s", item.ID, c.state.Category)
		c.state = State{}
		return item, nil

	default:
		return inventory.Item{}, ErrClosed
	}
}

// Delete removes an item after confirm accepts PromptDelete. A declined
// confirmation is a no-op and reports false. A nil confirm deletes without
// asking, for callers that already confirmed.
func (c *Controller) Delete(ctx context.Context, category, id string, confirm Confirm) (bool, error) {
	if !inventory.IsKnownCategory(category) {
		return false, fmt.Errorf("delete from %q: %w", category, ErrUnknownCategory)
	}
	if confirm != nil && !confirm(PromptDelete) {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	backup := c.store.Clone()
	if err := c.store.Delete(category, id); err != nil {
		return false, err
	}
	if err := c.save(ctx, backup); err != nil {
		return false, err
	}
	if c.state.Mode == OpenEdit && c.state.Category == category && c.state.ItemID == id {
		c.state = State{}
	}
	utils.Log.Debugf("[form] deleted %s from %s", id, category)
	return true, nil
}

func (c *Controller) reject(f Fields, err error) {
	utils.Log.Debugf("[form] %s submit rejected: %v", c.state.Mode, err)
	c.state.Fields = f
	c.state.Alert = AlertInvalid
}

func (c *Controller) save(ctx context.Context, backup *inventory.Store) error {
	if err := c.saver.Save(ctx, c.store); err != nil {
		c.store.Reset(backup)
		utils.Log.Errorf("[form] could not save inventory, change rolled back: %v", err)
		return fmt.Errorf("could not save inventory: %w", err)
	}
	return nil
}

func parseFields(f Fields, checkCategory bool) (inventory.Item, error) {
	var (
		bad  []string
		item inventory.Item
	)

	item.Name = strings.TrimSpace(f.Name)
	if item.Name == "" {
		bad = append(bad, "name")
	}

	if checkCategory {
		if !inventory.IsKnownCategory(strings.TrimSpace(f.Category)) {
			bad = append(bad, "category")
		}
	}

	if strings.TrimSpace(f.Expiry) == "" {
		bad = append(bad, "expiry")
	} else if d, err := inventory.ParseDate(f.Expiry); err != nil {
		bad = append(bad, "expiry")
	} else {
		item.Expiry = d
	}

	if price, ok := parsePrice(f.Price); !ok {
		bad = append(bad, "price")
	} else {
		item.Price = price
	}

	if len(bad) > 0 {
		return inventory.Item{}, &ValidationError{Fields: bad}
	}
	return item, nil
}

// parsePrice accepts a finite, non-negative decimal; a comma works as decimal separator.
func parsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if f, _ := d.Float64(); math.IsInf(f, 0) || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
