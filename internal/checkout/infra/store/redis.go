// Package store persists the per-customer in-progress cart. The redis
// implementation is the production one; the memory implementation backs
// tests and local development without a redis instance.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/checkout/core/ports"
)

// cartTTL bounds how long an abandoned cart survives. A day covers every
// realistic "come back and finish lunch" case.
const cartTTL = 24 * time.Hour

var _ ports.CartStore = (*RedisCartStore)(nil)

// RedisCartStore keeps one JSON-encoded cart per customer. All reads and
// writes for a customer go through the same key, so redis serialises
// them; no cart is ever written from two call sites concurrently.
type RedisCartStore struct {
	client *redis.Client
}

// NewRedisCartStore connects to redis at addr.
func NewRedisCartStore(addr string) *RedisCartStore {
	return &RedisCartStore{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func cartKey(customerID string) string {
	return fmt.Sprintf("checkout:cart:%s", customerID)
}

// Get loads the customer's cart, or domain.ErrCartNotFound.
func (s *RedisCartStore) Get(ctx context.Context, customerID string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(customerID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get cart for %q: %w", customerID, err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("store: decode cart for %q: %w", customerID, err)
	}
	return &cart, nil
}

// Save writes the cart, refreshing its TTL.
func (s *RedisCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("store: encode cart %q: %w", cart.ID, err)
	}
	if err := s.client.Set(ctx, cartKey(cart.CustomerID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("store: save cart %q: %w", cart.ID, err)
	}
	return nil
}

// Delete clears the customer's cart. Deleting a missing cart is not an
// error; submission already won.
func (s *RedisCartStore) Delete(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, cartKey(customerID)).Err(); err != nil {
		return fmt.Errorf("store: delete cart for %q: %w", customerID, err)
	}
	return nil
}
