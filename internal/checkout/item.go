package checkout

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// CartItem is a cart line that has passed validation. Instances are only
// constructed by ValidateItems; code downstream may rely on the invariants
// (non-empty id/name, price >= 0, quantity > 0).
type CartItem struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
	Image    string
}

// LineTotal returns price * quantity for the line.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Violation reports why a stored cart entry was dropped.
type Violation struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// rawItem mirrors the loosely-typed shape the web client persists.
// json.Number keeps the "must be a JSON number" checks strict.
type rawItem struct {
	ID       *string      `json:"id"`
	Name     *string      `json:"name"`
	Price    *json.Number `json:"price"`
	Quantity *json.Number `json:"quantity"`
	Image    string       `json:"image"`
}

// ValidateItems checks every stored cart entry and returns the survivors in
// order plus a violation per dropped entry. Items are dropped, never
// repaired: a single bad field disqualifies the whole entry.
//
// Rules: id and name must be non-empty strings, price a number >= 0 (zero is
// a valid free item, negative is rejected), quantity a positive integer.
func ValidateItems(raw []json.RawMessage) ([]CartItem, []Violation) {
	items := make([]CartItem, 0, len(raw))
	var violations []Violation

	for idx, entry := range raw {
		item, violation := validateItem(idx, entry)
		if violation != nil {
			violations = append(violations, *violation)
			continue
		}
		items = append(items, *item)
	}
	return items, violations
}

func validateItem(idx int, entry json.RawMessage) (*CartItem, *Violation) {
	var raw rawItem
	if err := json.Unmarshal(entry, &raw); err != nil {
		return nil, &Violation{Index: idx, Field: "item", Reason: "not a cart item object"}
	}

	if raw.ID == nil || *raw.ID == "" {
		return nil, &Violation{Index: idx, Field: "id", Reason: "missing or empty"}
	}
	if raw.Name == nil || *raw.Name == "" {
		return nil, &Violation{Index: idx, Field: "name", Reason: "missing or empty"}
	}

	if raw.Price == nil {
		return nil, &Violation{Index: idx, Field: "price", Reason: "missing or not a number"}
	}
	price, err := decimal.NewFromString(raw.Price.String())
	if err != nil {
		return nil, &Violation{Index: idx, Field: "price", Reason: "not a number"}
	}
	if price.IsNegative() {
		return nil, &Violation{Index: idx, Field: "price", Reason: "negative"}
	}

	if raw.Quantity == nil {
		return nil, &Violation{Index: idx, Field: "quantity", Reason: "missing or not a number"}
	}
	qty, err := strconv.ParseInt(raw.Quantity.String(), 10, 64)
	if err != nil {
		return nil, &Violation{Index: idx, Field: "quantity", Reason: "not an integer"}
	}
	if qty <= 0 {
		return nil, &Violation{Index: idx, Field: "quantity", Reason: "not positive"}
	}
	if qty > math.MaxInt {
		return nil, &Violation{Index: idx, Field: "quantity", Reason: "out of range"}
	}

	return &CartItem{
		ID:       *raw.ID,
		Name:     *raw.Name,
		Price:    price,
		Quantity: int(qty),
		Image:    raw.Image,
	}, nil
}

// SumTotal computes the exact order total across validated items.
func SumTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
