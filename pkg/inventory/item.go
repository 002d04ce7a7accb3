package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Item is a tracked food entry.
type Item struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Expiry Date            `json:"expiry"`
	Price  decimal.Decimal `json:"price"`
}

// NewID returns a fresh stable item identifier.
func NewID() string {
	return uuid.NewString()
}
