package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
)

func TestMemoryCartStoreRoundTrip(t *testing.T) {
	s := NewMemoryCartStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "cust1")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	cart := domain.NewCart("cust1", &domain.RestaurantRef{ID: "rest1", DeliveryFee: 3})
	cart.AddItem(domain.CartItem{MenuItemID: "m1", Price: 10, Quantity: 2})
	require.NoError(t, s.Save(ctx, cart))

	got, err := s.Get(ctx, "cust1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 20.00, got.Subtotal())

	// Stored carts are isolated copies: mutating the loaded cart does not
	// change what the next Get sees.
	got.Items[0].Quantity = 9
	again, err := s.Get(ctx, "cust1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)

	require.NoError(t, s.Delete(ctx, "cust1"))
	_, err = s.Get(ctx, "cust1")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}
