package clientstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Slot names mirror the storage keys the web client has always used.
const (
	slotCart     = "cart"
	slotProfile  = "user"
	slotProducts = "products"
)

var (
	// ErrNotFound marks an absent slot. A fresh shopper has no slots at all.
	ErrNotFound = errors.New("clientstate: slot not found")
	// ErrMalformed marks a slot whose stored payload no longer parses as the
	// expected shape.
	ErrMalformed = errors.New("clientstate: malformed slot data")
)

// KV is the durable keyed storage backing one shopper's client state.
// Implementations return ErrNotFound for missing keys.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Profile is the shopper's stored identity/contact record. Unknown fields
// written by other surfaces are preserved across merges.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Store is the explicit owner of the shopper's cart, profile, and product
// mirror slots. It replaces ambient global storage with injected state.
type Store struct {
	kv KV
}

// NewStore builds a Store over the provided keyed storage.
func NewStore(kv KV) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv storage required")
	}
	return &Store{kv: kv}, nil
}

// Cart returns the stored cart as an ordered sequence of undecoded items.
// Absent carts return ErrNotFound; payloads that are not a JSON array return
// ErrMalformed.
func (s *Store) Cart(ctx context.Context) ([]json.RawMessage, error) {
	return s.rawSequence(ctx, slotCart)
}

// SaveCart replaces the stored cart.
func (s *Store) SaveCart(ctx context.Context, items any) error {
	return s.saveJSON(ctx, slotCart, items)
}

// ClearCart removes the cart slot entirely.
func (s *Store) ClearCart(ctx context.Context) error {
	return s.kv.Del(ctx, slotCart)
}

// Profile returns the stored shopper profile, ErrNotFound when absent.
func (s *Store) Profile(ctx context.Context) (*Profile, error) {
	raw, err := s.kv.Get(ctx, slotProfile)
	if err != nil {
		return nil, err
	}
	var profile Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &profile, nil
}

// SaveProfile replaces the stored profile.
func (s *Store) SaveProfile(ctx context.Context, profile *Profile) error {
	return s.saveJSON(ctx, slotProfile, profile)
}

// MergeContact updates only the address and phone fields of the stored
// profile, leaving every other field untouched (including ones this package
// does not model).
func (s *Store) MergeContact(ctx context.Context, address, phone string) error {
	raw, err := s.kv.Get(ctx, slotProfile)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			raw = "{}"
		} else {
			return err
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}

	addressJSON, err := json.Marshal(address)
	if err != nil {
		return err
	}
	phoneJSON, err := json.Marshal(phone)
	if err != nil {
		return err
	}
	fields["address"] = addressJSON
	fields["phone"] = phoneJSON

	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, slotProfile, string(merged))
}

// Products returns the admin product mirror, ErrNotFound when absent. The
// mirror is deliberately independent of the server catalog.
func (s *Store) Products(ctx context.Context) ([]json.RawMessage, error) {
	return s.rawSequence(ctx, slotProducts)
}

// SaveProducts replaces the product mirror.
func (s *Store) SaveProducts(ctx context.Context, products any) error {
	return s.saveJSON(ctx, slotProducts, products)
}

// ClearProducts removes the product mirror slot.
func (s *Store) ClearProducts(ctx context.Context) error {
	return s.kv.Del(ctx, slotProducts)
}

func (s *Store) rawSequence(ctx context.Context, slot string) ([]json.RawMessage, error) {
	raw, err := s.kv.Get(ctx, slot)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return items, nil
}

func (s *Store) saveJSON(ctx context.Context, slot string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, slot, string(payload))
}
