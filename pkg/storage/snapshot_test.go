package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sw33tLie/dispensa/pkg/inventory"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "dispensa.sqlite"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleStore() *inventory.Store {
	s := inventory.NewStore()
	s.Add("Frigo Casa", inventory.Item{Name: "Milk", Expiry: inventory.NewDate(2024, time.January, 10), Price: decimal.RequireFromString("2.50")})
	s.Add("Frigo Casa", inventory.Item{Name: "Yogurt", Expiry: inventory.NewDate(2024, time.January, 12), Price: decimal.RequireFromString("0.99")})
	s.Add("Freezer Garage", inventory.Item{Name: "Peas", Expiry: inventory.NewDate(2025, time.March, 1), Price: decimal.RequireFromString("1.75")})
	return s
}

func TestLoadWithoutSnapshotIsEmpty(t *testing.T) {
	for name, b := range map[string]Backend{"sqlite": openTestDB(t), "memory": NewMemory()} {
		t.Run(name, func(t *testing.T) {
			store, err := NewSnapshots(b).Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if store.Len() != 0 {
				t.Fatalf("expected empty store, got %d items", store.Len())
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, b := range map[string]Backend{"sqlite": openTestDB(t), "memory": NewMemory()} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			snaps := NewSnapshots(b)
			want := sampleStore()

			if err := snaps.Save(ctx, want); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := snaps.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if !reflect.DeepEqual(got.Categories(), want.Categories()) {
				t.Fatalf("categories differ: got %v, want %v", got.Categories(), want.Categories())
			}
			for _, c := range want.Categories() {
				w, g := want.Items(c), got.Items(c)
				if len(w) != len(g) {
					t.Fatalf("%s: got %d items, want %d", c, len(g), len(w))
				}
				for i := range w {
					if w[i].ID != g[i].ID || w[i].Name != g[i].Name || w[i].Expiry != g[i].Expiry || !w[i].Price.Equal(g[i].Price) {
						t.Fatalf("%s[%d]: got %+v, want %+v", c, i, g[i], w[i])
					}
				}
			}
		})
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	snaps := NewSnapshots(openTestDB(t))

	if err := snaps.Save(ctx, sampleStore()); err != nil {
		t.Fatal(err)
	}
	if err := snaps.Save(ctx, inventory.NewStore()); err != nil {
		t.Fatal(err)
	}

	raw, err := snaps.Raw(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "{}" {
		t.Fatalf("expected empty snapshot, got %s", raw)
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"Frigo Casa": [`},
		{"array document", `[1,2,3]`},
		{"bad item shape", `{"Frigo Casa": "milk"}`},
		{"bad date", `{"Frigo Casa": [{"name":"Milk","expiry":"tomorrow","price":1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := NewMemory()
			if err := mem.Put(ctx, DefaultKey, []byte(tt.raw)); err != nil {
				t.Fatal(err)
			}
			_, err := NewSnapshots(mem).Load(ctx)
			if !errors.Is(err, ErrCorruptSnapshot) {
				t.Fatalf("Load() error = %v, want ErrCorruptSnapshot", err)
			}
		})
	}
}

func TestOrphans(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	raw := `{"Frigo Casa":[],"Cantina":[{"name":"Wine","expiry":"2030-01-01","price":12},{"name":"Beer","expiry":"2030-01-01","price":2}]}`
	if err := mem.Put(ctx, DefaultKey, []byte(raw)); err != nil {
		t.Fatal(err)
	}

	got, err := NewSnapshots(mem).Orphans(ctx)
	if err != nil {
		t.Fatalf("Orphans() error = %v", err)
	}
	want := []Orphan{{Category: "Cantina", Items: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Orphans() = %#v, want %#v", got, want)
	}
}

func TestOrphansAreKeptOnSave(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	raw := `{"Cantina":[{"id":"w1","name":"Wine","expiry":"2030-01-01","price":12}]}`
	if err := mem.Put(ctx, DefaultKey, []byte(raw)); err != nil {
		t.Fatal(err)
	}

	snaps := NewSnapshots(mem)
	store, err := snaps.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	store.Add("Frigo Casa", inventory.Item{Name: "Milk", Price: decimal.NewFromInt(1)})
	if err := snaps.Save(ctx, store); err != nil {
		t.Fatal(err)
	}

	reloaded, err := snaps.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if wine, ok := reloaded.ItemAt("Cantina", 0); !ok || wine.ID != "w1" {
		t.Fatalf("orphaned item lost on save: %+v", wine)
	}
}

func TestDropCategory(t *testing.T) {
	ctx := context.Background()
	b := NewMemory()
	b.Put(ctx, DefaultKey, []byte(`{"Frigo Casa":[{"id":"1","name":"Milk","expiry":"2024-01-10","price":2.5}],"Cantina.Vecchia":[{"name":"Vino","expiry":"2030-01-01","price":9}],"Soffitta":[]}`))
	snaps := NewSnapshots(b)

	dropped, err := snaps.DropCategory(ctx, "Cantina.Vecchia")
	if err != nil || !dropped {
		t.Fatalf("DropCategory() = %v, %v", dropped, err)
	}
	orphans, err := snaps.Orphans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(orphans, []Orphan{{Category: "Soffitta", Items: 0}}) {
		t.Fatalf("orphans after drop = %+v", orphans)
	}
	store, err := snaps.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if store.Count("Frigo Casa") != 1 {
		t.Fatalf("known category must be untouched")
	}

	if dropped, err := snaps.DropCategory(ctx, "Garage"); err != nil || dropped {
		t.Fatalf("absent category: dropped = %v, err = %v", dropped, err)
	}
	if _, err := snaps.DropCategory(ctx, "Frigo Casa"); err == nil {
		t.Fatalf("known categories must not be dropped")
	}
}
