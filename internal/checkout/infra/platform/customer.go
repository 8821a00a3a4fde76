package platform

import (
	"context"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/checkout/core/ports"
)

// Compile-time checks that the client satisfies the customer-facing ports.
var (
	_ ports.ProfileService       = (*Client)(nil)
	_ ports.PaymentMethodService = (*Client)(nil)
	_ ports.WalletService        = (*Client)(nil)
	_ ports.AddressService       = (*Client)(nil)
)

type profileResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Verified  bool             `json:"verified"`
	Addresses []addressPayload `json:"addresses"`
}

type addressPayload struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Label   string  `json:"label"`
}

func (a addressPayload) toDomain() domain.Address {
	return domain.Address{Address: a.Address, Lat: a.Lat, Lng: a.Lng, Label: a.Label}
}

// GetProfile fetches verification status and the legacy saved addresses.
func (c *Client) GetProfile(ctx context.Context, customerID string) (*domain.CustomerProfile, error) {
	var res profileResponse
	if err := c.get(ctx, "/api/customer/profile", customerID, &res); err != nil {
		return nil, err
	}
	profile := &domain.CustomerProfile{
		ID:       res.ID,
		Name:     res.Name,
		Verified: res.Verified,
	}
	for _, a := range res.Addresses {
		profile.LegacyAddresses = append(profile.LegacyAddresses, a.toDomain())
	}
	return profile, nil
}

type paymentMethodsResponse struct {
	Methods []domain.PaymentMethod `json:"methods"`
}

// ListPaymentMethods fetches the customer's saved cards.
func (c *Client) ListPaymentMethods(ctx context.Context, customerID string) ([]domain.PaymentMethod, error) {
	var res paymentMethodsResponse
	if err := c.get(ctx, "/api/customer/payment-methods", customerID, &res); err != nil {
		return nil, err
	}
	return res.Methods, nil
}

type walletResponse struct {
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// WalletBalance fetches the current wallet balance.
func (c *Client) WalletBalance(ctx context.Context, customerID string) (float64, error) {
	var res walletResponse
	if err := c.get(ctx, "/api/customer/wallet/balance", customerID, &res); err != nil {
		return 0, err
	}
	return res.Balance, nil
}

type addressesResponse struct {
	Addresses []addressPayload `json:"addresses"`
}

// ListAddresses fetches the structured saved addresses. Preferred over
// the legacy fields on the profile when it returns anything.
func (c *Client) ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error) {
	var res addressesResponse
	if err := c.get(ctx, "/api/customer/food/addresses", customerID, &res); err != nil {
		return nil, err
	}
	out := make([]domain.Address, 0, len(res.Addresses))
	for _, a := range res.Addresses {
		out = append(out, a.toDomain())
	}
	return out, nil
}
