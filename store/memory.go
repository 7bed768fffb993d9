// Package store provides storage implementations for the shopping cart.
package store

import (
	"context"
	"sync"

	"shopcart/domain"
)

// InMemoryStore is a thread-safe in-memory implementation of
// domain.CartStore. The cart lives only for the process lifetime.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []domain.CartEntry
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// compile-time assertion that InMemoryStore implements domain.CartStore
var _ domain.CartStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) Load(ctx context.Context) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartEntry, len(s.entries))
	copy(out, s.entries)
	return domain.Cart{Entries: out}, nil
}

func (s *InMemoryStore) Save(ctx context.Context, cart domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.CartEntry, len(cart.Entries))
	copy(entries, cart.Entries)
	s.entries = entries
	return nil
}

func (s *InMemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
