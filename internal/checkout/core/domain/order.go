package domain

// Wire values for the order-creation endpoint's payment field. The
// backend only distinguishes cash from everything else; wallet and saved
// cards both travel as "online", with the specific instrument carried in
// PaymentInstrument so settlement can target it.
const (
	WirePaymentCash   = "cash"
	WirePaymentOnline = "online"
)

// OrderItemRequest is one line of the order-creation payload.
type OrderItemRequest struct {
	MenuItemID          string     `json:"menuItemId"`
	Name                string     `json:"name"`
	Price               float64    `json:"price"`
	Quantity            int        `json:"quantity"`
	Modifiers           []Modifier `json:"modifiers,omitempty"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
}

// OrderRequest is the body of POST /api/food-orders, packaged from a
// fully validated cart.
type OrderRequest struct {
	RestaurantID         string             `json:"restaurantId"`
	CustomerID           string             `json:"customerId"`
	Items                []OrderItemRequest `json:"items"`
	DeliveryAddress      string             `json:"deliveryAddress"`
	DeliveryLat          float64            `json:"deliveryLat"`
	DeliveryLng          float64            `json:"deliveryLng"`
	PaymentMethod        string             `json:"paymentMethod"`
	PaymentInstrument    string             `json:"paymentInstrument,omitempty"`
	CouponCode           string             `json:"couponCode,omitempty"`
	TotalFare            float64            `json:"totalFare"`
	Tip                  float64            `json:"tip,omitempty"`
	DeliveryInstructions string             `json:"deliveryInstructions,omitempty"`
}

// OrderResult is what the order-creation endpoint returns. OrderID may be
// empty on older backend versions; callers fall back to the generic
// orders route in that case.
type OrderResult struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status,omitempty"`
}

// BuildOrderRequest packages a validated cart into the wire payload.
// The tip is only included when positive and delivery instructions only
// when non-empty (both fields are omitempty and zero values here).
func BuildOrderRequest(cart *Cart, tip, grandTotal float64) *OrderRequest {
	req := &OrderRequest{
		CustomerID:           cart.CustomerID,
		DeliveryInstructions: cart.DeliveryInstructions,
		CouponCode:           cart.PromoCode,
		TotalFare:            grandTotal,
	}
	if cart.Restaurant != nil {
		req.RestaurantID = cart.Restaurant.ID
	}
	if cart.DeliveryAddress != nil {
		req.DeliveryAddress = cart.DeliveryAddress.Address
		req.DeliveryLat = cart.DeliveryAddress.Lat
		req.DeliveryLng = cart.DeliveryAddress.Lng
	}
	if tip > 0 {
		req.Tip = tip
	}

	switch cart.PaymentSelection {
	case PaymentCash:
		req.PaymentMethod = WirePaymentCash
	default:
		req.PaymentMethod = WirePaymentOnline
		req.PaymentInstrument = cart.PaymentSelection
	}

	req.Items = make([]OrderItemRequest, len(cart.Items))
	for i, it := range cart.Items {
		req.Items[i] = OrderItemRequest{
			MenuItemID:          it.MenuItemID,
			Name:                it.Name,
			Price:               it.Price,
			Quantity:            it.Quantity,
			Modifiers:           it.Modifiers,
			SpecialInstructions: it.SpecialInstructions,
		}
	}
	return req
}
