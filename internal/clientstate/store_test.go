package clientstate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func newTestStore(t *testing.T) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	store, err := NewStore(kv)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, kv
}

func TestFirstRunIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Cart(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cart, got %v", err)
	}
	if _, err := store.Profile(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for profile, got %v", err)
	}
	if _, err := store.Products(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for products, got %v", err)
	}
}

func TestCartRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	items := []map[string]any{{"id": "p1", "name": "Widget", "price": 100, "quantity": 2}}
	if err := store.SaveCart(ctx, items); err != nil {
		t.Fatalf("save cart: %v", err)
	}

	raw, err := store.Cart(ctx)
	if err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 item, got %d", len(raw))
	}

	if err := store.ClearCart(ctx); err != nil {
		t.Fatalf("clear cart: %v", err)
	}
	if _, err := store.Cart(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cleared cart to be absent, got %v", err)
	}
}

func TestCartMalformedPayload(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	// A JSON object where an array is expected.
	if err := kv.Set(ctx, "cart", `{"id":"p1"}`); err != nil {
		t.Fatalf("seed kv: %v", err)
	}
	if _, err := store.Cart(ctx); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestMergeContactTouchesOnlyAddressAndPhone(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	seed := `{"username":"Ann","email":"a@x.com","phone":"555","address":"Main St","loyaltyTier":"gold"}`
	if err := kv.Set(ctx, "user", seed); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	if err := store.MergeContact(ctx, "New Town 42", "777"); err != nil {
		t.Fatalf("merge contact: %v", err)
	}

	raw, err := kv.Get(ctx, "user")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		t.Fatalf("decode merged profile: %v", err)
	}
	if fields["address"] != "New Town 42" || fields["phone"] != "777" {
		t.Fatalf("contact not merged: %v", fields)
	}
	if fields["username"] != "Ann" || fields["email"] != "a@x.com" {
		t.Fatalf("identity fields must be untouched: %v", fields)
	}
	if fields["loyaltyTier"] != "gold" {
		t.Fatalf("unmodeled fields must survive the merge: %v", fields)
	}
}

func TestMergeContactOnMissingProfileCreatesContactOnly(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.MergeContact(ctx, "Addr", "123"); err != nil {
		t.Fatalf("merge contact: %v", err)
	}
	profile, err := store.Profile(ctx)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Address != "Addr" || profile.Phone != "123" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestProductsMirrorIndependentOfCart(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveProducts(ctx, []map[string]any{{"id": "p1", "stock": 5}}); err != nil {
		t.Fatalf("save products: %v", err)
	}
	if err := store.SaveCart(ctx, []map[string]any{{"id": "p2"}}); err != nil {
		t.Fatalf("save cart: %v", err)
	}
	if err := store.ClearCart(ctx); err != nil {
		t.Fatalf("clear cart: %v", err)
	}

	mirror, err := store.Products(ctx)
	if err != nil {
		t.Fatalf("products after cart clear: %v", err)
	}
	if len(mirror) != 1 {
		t.Fatalf("mirror lost entries: %d", len(mirror))
	}
}
