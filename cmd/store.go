package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/sw33tLie/dispensa/internal/utils"
	"github.com/sw33tLie/dispensa/pkg/form"
	"github.com/sw33tLie/dispensa/pkg/inventory"
	"github.com/sw33tLie/dispensa/pkg/storage"
)

// inventoryDB bundles the opened backend with the lock guarding its writes.
type inventoryDB struct {
	db    *storage.DB
	lock  *utils.SnapshotLock
	snaps *storage.Snapshots
}

func openInventoryDB() (*inventoryDB, error) {
	dbPath, err := utils.GetAbsDBPath(viper.GetString("storage.path"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}
	lock, err := utils.NewSnapshotLock(dbPath)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB %s: %w", dbPath, err)
	}
	utils.Log.Debugf("using inventory database %s", dbPath)
	return &inventoryDB{db: db, lock: lock, snaps: storage.NewSnapshots(db)}, nil
}

func (d *inventoryDB) Close() error {
	return d.db.Close()
}

// lockedSaver saves under the file lock, for long-running processes that
// load once and save after every change.
type lockedSaver struct {
	snaps *storage.Snapshots
	lock  *utils.SnapshotLock
}

func (s lockedSaver) Save(ctx context.Context, store *inventory.Store) error {
	if err := s.lock.Lock(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock()
	return s.snaps.Save(ctx, store)
}

// withController holds the lock for the whole load-modify-save cycle of a
// single CLI command.
func withController(ctx context.Context, fn func(ctrl *form.Controller) error) error {
	d, err := openInventoryDB()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.lock.Lock(ctx); err != nil {
		return err
	}
	defer d.lock.Unlock()

	store, err := d.snaps.Load(ctx)
	if err != nil {
		return err
	}
	return fn(form.NewController(store, d.snaps))
}

// promptConfirm asks a yes/no question on the terminal.
func promptConfirm(in io.Reader, out io.Writer) form.Confirm {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [s/N] ", prompt)
		line, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "si", "sì", "y", "yes":
			return true
		}
		return false
	}
}

// resolveItem finds an item by full ID, unique ID prefix, or 1-based position.
func resolveItem(store *inventory.Store, category, ref string) (inventory.Item, error) {
	items := store.Items(category)
	var pos int
	if _, err := fmt.Sscanf(ref, "#%d", &pos); err == nil {
		if it, ok := store.ItemAt(category, pos-1); ok {
			return it, nil
		}
		return inventory.Item{}, fmt.Errorf("no item at position %d in %s: %w", pos, category, inventory.ErrNotFound)
	}
	var match []inventory.Item
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
		if strings.HasPrefix(it.ID, ref) {
			match = append(match, it)
		}
	}
	switch len(match) {
	case 1:
		return match[0], nil
	case 0:
		return inventory.Item{}, fmt.Errorf("no item %q in %s: %w", ref, category, inventory.ErrNotFound)
	default:
		return inventory.Item{}, fmt.Errorf("item reference %q is ambiguous in %s", ref, category)
	}
}

func requireCategory(name string) error {
	if name == "" {
		return fmt.Errorf("please provide a category via --category")
	}
	if !inventory.IsKnownCategory(name) {
		var names []string
		for _, c := range inventory.AllCategories() {
			names = append(names, c.Name)
		}
		return fmt.Errorf("unknown category %q (available: %s)", name, strings.Join(names, ", "))
	}
	return nil
}
