package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/checkout/core/ports"
)

var _ ports.CartStore = (*MemoryCartStore)(nil)

// MemoryCartStore is an in-process CartStore for tests and local
// development. Carts are stored as JSON, same as redis, so both
// implementations share the round-trip behaviour.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryCartStore returns an empty in-memory store.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string][]byte)}
}

func (s *MemoryCartStore) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	s.mu.RLock()
	data, ok := s.carts[customerID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrCartNotFound
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *MemoryCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.carts[cart.CustomerID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryCartStore) Delete(ctx context.Context, customerID string) error {
	s.mu.Lock()
	delete(s.carts, customerID)
	s.mu.Unlock()
	return nil
}
