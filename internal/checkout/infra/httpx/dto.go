package httpx

import (
	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/gate"
)

type StartCartRequest struct {
	Restaurant *RestaurantDTO `json:"restaurant"`
	Items      []CartItemDTO  `json:"items"`
}

type RestaurantDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	MinOrderAmount float64 `json:"min_order_amount"`
	DeliveryFee    float64 `json:"delivery_fee"`
	ServiceFeeRate float64 `json:"service_fee_rate"`
	TaxRate        float64 `json:"tax_rate"`
}

type CartItemDTO struct {
	MenuItemID          string            `json:"menu_item_id"`
	Name                string            `json:"name"`
	Price               float64           `json:"price"`
	Quantity            int               `json:"quantity"`
	Modifiers           []domain.Modifier `json:"modifiers,omitempty"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type SetAddressRequest struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
	Label   string  `json:"label,omitempty"`
}

type SetPaymentRequest struct {
	Selection string `json:"selection"`
}

type SetTipRequest struct {
	Kind        string `json:"kind"`
	Percent     int    `json:"percent,omitempty"`
	CustomInput string `json:"custom_input,omitempty"`
}

type SetInstructionsRequest struct {
	Instructions string `json:"instructions"`
}

type ApplyPromoRequest struct {
	Code string `json:"code"`
}

type ValidateResponse struct {
	OK    bool        `json:"ok"`
	Block *gate.Block `json:"block,omitempty"`
}

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Block   *gate.Block `json:"block,omitempty"`
}

func (r RestaurantDTO) toDomain() *domain.RestaurantRef {
	return &domain.RestaurantRef{
		ID:             r.ID,
		Name:           r.Name,
		MinOrderAmount: r.MinOrderAmount,
		DeliveryFee:    r.DeliveryFee,
		ServiceFeeRate: r.ServiceFeeRate,
		TaxRate:        r.TaxRate,
	}
}

func (i CartItemDTO) toDomain() domain.CartItem {
	return domain.CartItem{
		MenuItemID:          i.MenuItemID,
		Name:                i.Name,
		Price:               i.Price,
		Quantity:            i.Quantity,
		Modifiers:           i.Modifiers,
		SpecialInstructions: i.SpecialInstructions,
	}
}
