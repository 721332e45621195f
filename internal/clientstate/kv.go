package clientstate

import (
	"context"
	"errors"
	"sync"

	pkgredis "github.com/kartikmehra/shopkart-backend/pkg/redis"
)

// redisKV adapts the shared redis client to one shopper's keyed slots.
type redisKV struct {
	client    *pkgredis.Client
	shopperID string
}

// NewRedisKV scopes the shared redis client to the shopper's state keys.
func NewRedisKV(client *pkgredis.Client, shopperID string) KV {
	return &redisKV{client: client, shopperID: shopperID}
}

func (r *redisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.client.StateKey(r.shopperID, key))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *redisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.StateKey(r.shopperID, key), value, 0)
}

func (r *redisKV) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.StateKey(r.shopperID, key))
}

// MemoryKV is an in-process KV used by tests and single-shopper tooling.
type MemoryKV struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryKV returns an empty in-memory KV: the first-run state.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{slots: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.slots[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

func (m *MemoryKV) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}
