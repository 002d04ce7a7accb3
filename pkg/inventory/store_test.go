package inventory

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func item(name, price string) Item {
	return Item{
		Name:   name,
		Expiry: NewDate(2024, time.January, 10),
		Price:  decimal.RequireFromString(price),
	}
}

func names(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestTotalPriceIsSumOfAddedItems(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
		want   string
	}{
		{"single", []string{"2.50"}, "2.5"},
		{"several", []string{"2.50", "1.10", "0.40"}, "4"},
		{"reordered", []string{"0.40", "2.50", "1.10"}, "4"},
		{"cents", []string{"0.01", "0.02"}, "0.03"},
		{"zero", []string{"0"}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			for _, p := range tt.prices {
				s.Add("Frigo Casa", item("x", p))
			}
			got := s.TotalPrice("Frigo Casa")
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("TotalPrice() = %s, want %s", got, tt.want)
			}
			if other := s.TotalPrice("Frigo Taverna"); !other.IsZero() {
				t.Fatalf("unrelated category total = %s, want 0", other)
			}
		})
	}
}

func TestAddAssignsStableIDs(t *testing.T) {
	s := NewStore()
	a := s.Add("Frigo Casa", item("Milk", "2.50"))
	b := s.Add("Frigo Casa", item("Eggs", "3"))
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}

	kept := s.Add("Frigo Casa", Item{ID: "fixed", Name: "Butter"})
	if kept.ID != "fixed" {
		t.Fatalf("expected existing id to be kept, got %q", kept.ID)
	}
}

func TestDeleteShiftsLaterItems(t *testing.T) {
	s := NewStore()
	var ids []string
	for _, n := range []string{"a", "b", "c", "d"} {
		ids = append(ids, s.Add("Dispensa Taverna", item(n, "1")).ID)
	}

	if err := s.Delete("Dispensa Taverna", ids[1]); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got := names(s.Items("Dispensa Taverna"))
	want := []string{"a", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected items after delete.\nwant: %v\ngot:  %v", want, got)
	}
	if it, ok := s.ItemAt("Dispensa Taverna", 1); !ok || it.ID != ids[2] {
		t.Fatalf("expected item c to move to index 1, got %+v", it)
	}
}

func TestDeleteLastItemLeavesEmptyCategory(t *testing.T) {
	s := NewStore()
	it := s.Add("Freezer Garage", item("Peas", "1.99"))

	if err := s.Delete("Freezer Garage", it.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n := s.Count("Freezer Garage"); n != 0 {
		t.Fatalf("Count() = %d, want 0", n)
	}
	if total := s.TotalPrice("Freezer Garage"); !total.IsZero() {
		t.Fatalf("TotalPrice() = %s, want 0", total)
	}
	if total := s.TotalPrice("never used"); !total.IsZero() {
		t.Fatalf("TotalPrice() on absent category = %s, want 0", total)
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	s := NewStore()
	s.Add("Frigo Casa", item("Milk", "1"))

	if err := s.Update("Frigo Casa", "missing", item("x", "1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete("Frigo Garage", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get("Frigo Casa", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateKeepsPositionAndID(t *testing.T) {
	s := NewStore()
	first := s.Add("Frigo Casa", item("Milk", "2.50"))
	s.Add("Frigo Casa", item("Eggs", "3"))

	if err := s.Update("Frigo Casa", first.ID, Item{ID: "ignored", Name: "Milk", Price: decimal.RequireFromString("3")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := s.ItemAt("Frigo Casa", 0)
	if got.ID != first.ID || !got.Price.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("unexpected item after update: %+v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewStore()
	it := s.Add("Frigo Casa", item("Milk", "1"))
	c := s.Clone()

	if err := s.Delete("Frigo Casa", it.ID); err != nil {
		t.Fatal(err)
	}
	if c.Count("Frigo Casa") != 1 {
		t.Fatalf("clone was modified by a change to the original")
	}

	s.Reset(c)
	if s.Count("Frigo Casa") != 1 {
		t.Fatalf("Reset() did not restore the item")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := NewStore()
	s.Add("Frigo Casa", item("Milk", "2.50"))
	s.Add("Frigo Casa", item("Eggs", "3.20"))
	s.Add("Freezer Garage", item("Peas", "1.99"))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	got := NewStore()
	if err := json.Unmarshal(data, got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, c := range []string{"Frigo Casa", "Freezer Garage"} {
		want, have := s.Items(c), got.Items(c)
		if len(want) != len(have) {
			t.Fatalf("%s: len %d, want %d", c, len(have), len(want))
		}
		for i := range want {
			if want[i].ID != have[i].ID || want[i].Name != have[i].Name ||
				want[i].Expiry != have[i].Expiry || !want[i].Price.Equal(have[i].Price) {
				t.Fatalf("%s[%d]: got %+v, want %+v", c, i, have[i], want[i])
			}
		}
	}
}

func TestUnmarshalLegacySnapshot(t *testing.T) {
	raw := `{"Frigo Casa":[{"name":"Milk","expiry":"2024-01-10","price":2.5}],"Cantina":[{"name":"Wine","expiry":"2030-5-1","price":12}]}`

	s := NewStore()
	if err := json.Unmarshal([]byte(raw), s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	milk, ok := s.ItemAt("Frigo Casa", 0)
	if !ok || milk.ID == "" {
		t.Fatalf("expected legacy item to receive an id, got %+v", milk)
	}
	if milk.Expiry.String() != "2024-01-10" {
		t.Fatalf("unexpected expiry %q", milk.Expiry)
	}
	if orphans := s.Orphans(); !reflect.DeepEqual(orphans, []string{"Cantina"}) {
		t.Fatalf("Orphans() = %v", orphans)
	}
	wine, _ := s.ItemAt("Cantina", 0)
	if wine.Expiry.String() != "2030-05-01" {
		t.Fatalf("permissive date not normalized: %q", wine.Expiry)
	}
}

func TestMarshalPriceAsNumber(t *testing.T) {
	s := NewStore()
	s.Add("Frigo Casa", Item{ID: "1", Name: "Milk", Expiry: NewDate(2024, time.January, 10), Price: decimal.RequireFromString("2.5")})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"Frigo Casa":[{"id":"1","name":"Milk","expiry":"2024-01-10","price":2.5}]}`
	if string(data) != want {
		t.Fatalf("unexpected snapshot.\nwant: %s\ngot:  %s", want, data)
	}
}
