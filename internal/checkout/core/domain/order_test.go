package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittableCart(selection string) *Cart {
	cart := testCart()
	cart.DeliveryAddress = &Address{Address: "12 North St", Lat: 40.71, Lng: -74.0}
	cart.PaymentSelection = selection
	return cart
}

func TestBuildOrderRequestWireMapping(t *testing.T) {
	tests := []struct {
		name           string
		selection      string
		wantMethod     string
		wantInstrument string
	}{
		{name: "cashStaysCash", selection: PaymentCash, wantMethod: WirePaymentCash, wantInstrument: ""},
		{name: "walletBecomesOnline", selection: PaymentWallet, wantMethod: WirePaymentOnline, wantInstrument: PaymentWallet},
		{name: "cardBecomesOnline", selection: "pm_123", wantMethod: WirePaymentOnline, wantInstrument: "pm_123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildOrderRequest(submittableCart(tt.selection), 0, 25.60)
			assert.Equal(t, tt.wantMethod, req.PaymentMethod)
			assert.Equal(t, tt.wantInstrument, req.PaymentInstrument)
		})
	}
}

func TestBuildOrderRequestPayload(t *testing.T) {
	cart := submittableCart(PaymentCash)
	cart.Items[0].SpecialInstructions = "no cilantro"
	cart.DeliveryInstructions = "ring the bell"

	req := BuildOrderRequest(cart, 3.00, 28.60)

	assert.Equal(t, "rest1", req.RestaurantID)
	assert.Equal(t, "cust1", req.CustomerID)
	assert.Equal(t, "12 North St", req.DeliveryAddress)
	assert.Equal(t, 40.71, req.DeliveryLat)
	assert.Equal(t, -74.0, req.DeliveryLng)
	assert.Equal(t, 28.60, req.TotalFare)
	assert.Equal(t, 3.00, req.Tip)
	assert.Equal(t, "ring the bell", req.DeliveryInstructions)

	require.Len(t, req.Items, 1)
	assert.Equal(t, "m1", req.Items[0].MenuItemID)
	assert.Equal(t, "Tacos", req.Items[0].Name)
	assert.Equal(t, 10.00, req.Items[0].Price)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, "no cilantro", req.Items[0].SpecialInstructions)
}

func TestBuildOrderRequestOmitsZeroTipAndEmptyInstructions(t *testing.T) {
	req := BuildOrderRequest(submittableCart(PaymentCash), 0, 25.60)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "tip")
	assert.NotContains(t, raw, "deliveryInstructions")
}
