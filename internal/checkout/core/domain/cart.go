package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCartNotFound is returned by cart stores when the customer has no
	// active cart.
	ErrCartNotFound = errors.New("cart not found")

	// ErrItemNotFound is returned by item mutations for unknown line items.
	ErrItemNotFound = errors.New("cart item not found")
)

// RestaurantRef is the restaurant context a cart was started from,
// including the pricing parameters the checkout needs locally.
type RestaurantRef struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	MinOrderAmount float64 `json:"min_order_amount"`
	DeliveryFee    float64 `json:"delivery_fee"`
	ServiceFeeRate float64 `json:"service_fee_rate"`
	TaxRate        float64 `json:"tax_rate"`
}

// Modifier is a priced item option (extra cheese, large size, ...).
type Modifier struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartItem is one line in the cart. Quantity is always >= 1: setting a
// quantity of 0 removes the line instead.
type CartItem struct {
	ID                  string     `json:"id"`
	MenuItemID          string     `json:"menu_item_id"`
	Name                string     `json:"name"`
	Price               float64    `json:"price"`
	Quantity            int        `json:"quantity"`
	Modifiers           []Modifier `json:"modifiers,omitempty"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
}

// UnitPrice is the item price plus all modifier prices.
func (it CartItem) UnitPrice() float64 {
	p := it.Price
	for _, m := range it.Modifiers {
		p += m.Price
	}
	return p
}

// LineTotal is the unit price multiplied by the quantity.
func (it CartItem) LineTotal() float64 {
	return it.UnitPrice() * float64(it.Quantity)
}

// Totals is the derived money breakdown of a cart. It is recomputed on
// every read and never stored.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	ServiceFee  float64 `json:"service_fee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// Cart is the state of one in-progress order. It is owned by a single
// customer, mutated through explicit setters, and cleared on successful
// submission. Failed submissions leave it intact so the customer can
// retry.
type Cart struct {
	ID                   string         `json:"id"`
	CustomerID           string         `json:"customer_id"`
	Restaurant           *RestaurantRef `json:"restaurant,omitempty"`
	Items                []CartItem     `json:"items"`
	DeliveryAddress      *Address       `json:"delivery_address,omitempty"`
	PaymentSelection     string         `json:"payment_selection,omitempty"`
	Tip                  TipSelection   `json:"tip"`
	PromoCode            string         `json:"promo_code,omitempty"`
	PromoDiscount        float64        `json:"promo_discount,omitempty"`
	PromoFreeDelivery    bool           `json:"promo_free_delivery,omitempty"`
	DeliveryInstructions string         `json:"delivery_instructions,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// NewCart starts an empty cart for a customer at a restaurant.
func NewCart(customerID string, restaurant *RestaurantRef) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Restaurant: restaurant,
		Tip:        TipSelection{Kind: TipNone},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddItem appends a line item, assigning it a fresh line ID.
func (c *Cart) AddItem(item CartItem) *CartItem {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	c.Items = append(c.Items, item)
	c.touch()
	return &c.Items[len(c.Items)-1]
}

// SetItemQuantity sets the quantity of a line item. Quantity 0 removes
// the line; negative quantities are rejected by the HTTP layer before
// reaching here and are treated as 0.
func (c *Cart) SetItemQuantity(itemID string, qty int) error {
	if qty <= 0 {
		return c.RemoveItem(itemID)
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = qty
			c.touch()
			return nil
		}
	}
	return ErrItemNotFound
}

// RemoveItem deletes a line item.
func (c *Cart) RemoveItem(itemID string) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return ErrItemNotFound
}

// ApplyPromo records a validated coupon on the cart.
func (c *Cart) ApplyPromo(code string, discount float64, freeDelivery bool) {
	c.PromoCode = code
	c.PromoDiscount = discount
	c.PromoFreeDelivery = freeDelivery
	c.touch()
}

// ClearPromo removes any applied coupon, restoring pre-promo totals.
func (c *Cart) ClearPromo() {
	c.PromoCode = ""
	c.PromoDiscount = 0
	c.PromoFreeDelivery = false
	c.touch()
}

// Subtotal is the sum of all line totals.
func (c *Cart) Subtotal() float64 {
	var s float64
	for _, it := range c.Items {
		s += it.LineTotal()
	}
	return Round2(s)
}

// ComputeTotals derives the full money breakdown from the current cart
// contents, restaurant pricing, and promo state.
func (c *Cart) ComputeTotals() Totals {
	sub := c.Subtotal()

	var delivery, serviceRate, taxRate float64
	if c.Restaurant != nil {
		delivery = c.Restaurant.DeliveryFee
		serviceRate = c.Restaurant.ServiceFeeRate
		taxRate = c.Restaurant.TaxRate
	}
	if c.PromoFreeDelivery {
		delivery = 0
	}

	service := Round2(sub * serviceRate)
	tax := Round2(sub * taxRate)
	discount := c.PromoDiscount
	if discount > sub {
		discount = sub
	}

	return Totals{
		Subtotal:    sub,
		DeliveryFee: Round2(delivery),
		ServiceFee:  service,
		Tax:         tax,
		Discount:    Round2(discount),
		Total:       Round2(sub + delivery + service + tax - discount),
	}
}

// TipAmount derives the tip from the current subtotal and selection.
func (c *Cart) TipAmount() float64 {
	return ComputeTip(c.Subtotal(), c.Tip)
}

// GrandTotal is the order total plus tip. The tip strictly adds; it is
// never folded into the stored totals.
func (c *Cart) GrandTotal() float64 {
	return Round2(c.ComputeTotals().Total + c.TipAmount())
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
