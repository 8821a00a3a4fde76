package platform

import (
	"context"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/checkout/core/ports"
)

var (
	_ ports.CouponService = (*Client)(nil)
	_ ports.OrderService  = (*Client)(nil)
)

// ValidateCoupon asks the platform whether a promo code applies to the
// given restaurant, customer, and subtotal.
func (c *Client) ValidateCoupon(ctx context.Context, req domain.CouponRequest) (*domain.PromoResult, error) {
	var res domain.PromoResult
	if err := c.post(ctx, "/api/coupons/validate", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
	// Older backend versions nest the order instead of returning the id
	// at the top level.
	Order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"order"`
	Status string `json:"status"`
}

// CreateOrder submits the packaged order. Single-shot: a failure is
// returned to the caller verbatim and never retried here.
func (c *Client) CreateOrder(ctx context.Context, req *domain.OrderRequest) (*domain.OrderResult, error) {
	var res createOrderResponse
	if err := c.post(ctx, "/api/food-orders", req, &res); err != nil {
		return nil, err
	}

	result := &domain.OrderResult{OrderID: res.OrderID, Status: res.Status}
	if result.OrderID == "" {
		result.OrderID = res.Order.ID
	}
	if result.Status == "" {
		result.Status = res.Order.Status
	}
	return result, nil
}
