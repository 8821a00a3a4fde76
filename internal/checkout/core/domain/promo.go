package domain

// CouponRequest is the input to the coupon validation collaborator.
type CouponRequest struct {
	RestaurantID string  `json:"restaurantId"`
	CustomerID   string  `json:"customerId"`
	Subtotal     float64 `json:"subtotal"`
	CouponCode   string  `json:"couponCode"`
}

// PromoResult is the coupon service's verdict. A rejected coupon never
// blocks the rest of checkout; its Message is surfaced in the promo
// widget only.
type PromoResult struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discountAmount"`
	IsFreeDelivery bool    `json:"isFreeDelivery"`
	Message        string  `json:"message,omitempty"`
}
