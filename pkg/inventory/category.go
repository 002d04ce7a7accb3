package inventory

// Category is one of the fixed storage locations items are grouped under.
type Category struct {
	Name string
	Icon string
}

var categories = []Category{
	{Name: "Frigo Casa", Icon: "🍎"},
	{Name: "Frigo Taverna", Icon: "🍺"},
	{Name: "Dispensa Taverna", Icon: "🥫"},
	{Name: "Freezer Garage", Icon: "❄️"},
	{Name: "Frigo Garage", Icon: "🥤"},
}

// AllCategories returns the static category list in display order.
func AllCategories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory finds a category by its exact name.
func LookupCategory(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// IsKnownCategory reports whether name belongs to the static list.
func IsKnownCategory(name string) bool {
	_, ok := LookupCategory(name)
	return ok
}
