// Package ports declares the interfaces the checkout core depends on.
// Adapters under infra/ implement them against the real platform API,
// geocoder, and redis; tests swap in fakes.
package ports

import (
	"context"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
)

// ProfileService exposes the customer profile collaborator
// (GET /api/customer/profile).
type ProfileService interface {
	GetProfile(ctx context.Context, customerID string) (*domain.CustomerProfile, error)
}

// PaymentMethodService lists the customer's saved cards
// (GET /api/customer/payment-methods).
type PaymentMethodService interface {
	ListPaymentMethods(ctx context.Context, customerID string) ([]domain.PaymentMethod, error)
}

// WalletService reads the current wallet balance
// (GET /api/customer/wallet/balance).
type WalletService interface {
	WalletBalance(ctx context.Context, customerID string) (float64, error)
}

// AddressService lists structured saved addresses
// (GET /api/customer/food/addresses). Preferred over the legacy fields on
// the profile when it returns anything.
type AddressService interface {
	ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error)
}

// CouponService validates promo codes (POST /api/coupons/validate).
type CouponService interface {
	ValidateCoupon(ctx context.Context, req domain.CouponRequest) (*domain.PromoResult, error)
}

// OrderService creates orders (POST /api/food-orders). Single-shot: the
// checkout never retries a failed create on its own.
type OrderService interface {
	CreateOrder(ctx context.Context, req *domain.OrderRequest) (*domain.OrderResult, error)
}

// Geocoder resolves a display address to coordinates. Geocoding an
// address happens before the address is accepted onto the cart, never
// concurrently with it.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, err error)
}

// CartStore persists the per-customer in-progress cart. Implementations
// must return domain.ErrCartNotFound when the customer has no cart.
type CartStore interface {
	Get(ctx context.Context, customerID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, customerID string) error
}
