package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/checkout/core/service"
	"github.com/swifteats/checkout/internal/checkout/infra/store"
)

// fixed clock so card-expiry behaviour is deterministic.
var handlerNow = time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

type stubPlatform struct {
	profile *domain.CustomerProfile
	methods []domain.PaymentMethod
	balance float64
	promo   *domain.PromoResult
	order   *domain.OrderResult
}

func (s *stubPlatform) GetProfile(context.Context, string) (*domain.CustomerProfile, error) {
	return s.profile, nil
}

func (s *stubPlatform) ListPaymentMethods(context.Context, string) ([]domain.PaymentMethod, error) {
	return s.methods, nil
}

func (s *stubPlatform) WalletBalance(context.Context, string) (float64, error) {
	return s.balance, nil
}

func (s *stubPlatform) ListAddresses(context.Context, string) ([]domain.Address, error) {
	return nil, nil
}

func (s *stubPlatform) ValidateCoupon(context.Context, domain.CouponRequest) (*domain.PromoResult, error) {
	return s.promo, nil
}

func (s *stubPlatform) CreateOrder(context.Context, *domain.OrderRequest) (*domain.OrderResult, error) {
	return s.order, nil
}

type stubGeocoder struct{}

func (stubGeocoder) Geocode(context.Context, string) (float64, float64, error) {
	return 40.71, -74.0, nil
}

func newTestServer(platform *stubPlatform) http.Handler {
	svc := service.New(service.Deps{
		Carts:     store.NewMemoryCartStore(),
		Profiles:  platform,
		Payments:  platform,
		Wallet:    platform,
		Addresses: platform,
		Coupons:   platform,
		Orders:    platform,
		Geocoder:  stubGeocoder{},
		Now:       func() time.Time { return handlerNow },
	})
	return NewRouter(NewHandler(svc))
}

func verifiedPlatform() *stubPlatform {
	return &stubPlatform{
		profile: &domain.CustomerProfile{ID: "cust1", Verified: true},
		methods: []domain.PaymentMethod{
			{ID: "pm1", Brand: "Visa", Last4: "4242", ExpMonth: 12, ExpYear: 30, IsDefault: true},
		},
		balance: 100,
		order:   &domain.OrderResult{OrderID: "ord_9"},
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Customer-Id", "cust1")
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func startCart(t *testing.T, h http.Handler) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/checkout/cart", StartCartRequest{
		Restaurant: &RestaurantDTO{ID: "rest1", Name: "Taqueria Uno", MinOrderAmount: 15, DeliveryFee: 3},
		Items: []CartItemDTO{
			{MenuItemID: "m1", Name: "Tacos", Price: 10, Quantity: 2},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestMissingCustomerHeaderIsUnauthorized(t *testing.T) {
	h := newTestServer(verifiedPlatform())
	req := httptest.NewRequest(http.MethodGet, "/checkout/cart", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCartBeforeStartIsNotFound(t *testing.T) {
	h := newTestServer(verifiedPlatform())
	rec := doJSON(t, h, http.MethodGet, "/checkout/cart", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartQuoteLifecycle(t *testing.T) {
	h := newTestServer(verifiedPlatform())
	startCart(t, h)

	rec := doJSON(t, h, http.MethodPut, "/checkout/tip", SetTipRequest{Kind: "percent", Percent: 15})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var quote service.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 20.00, quote.Totals.Subtotal)
	assert.Equal(t, 3.00, quote.Tip)
	assert.Equal(t, 26.00, quote.GrandTotal) // 20 + 3 delivery + 3 tip
}

func TestUpdateItemQuantityZeroRemovesLine(t *testing.T) {
	h := newTestServer(verifiedPlatform())
	startCart(t, h)

	rec := doJSON(t, h, http.MethodGet, "/checkout/cart", nil)
	var quote service.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	require.Len(t, quote.Cart.Items, 1)
	itemID := quote.Cart.Items[0].ID

	rec = doJSON(t, h, http.MethodPut, "/checkout/cart/items/"+itemID, UpdateItemRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Empty(t, quote.Cart.Items)
}

func TestInvalidTipPresetIsBadRequest(t *testing.T) {
	h := newTestServer(verifiedPlatform())
	startCart(t, h)

	rec := doJSON(t, h, http.MethodPut, "/checkout/tip", SetTipRequest{Kind: "percent", Percent: 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateBlockedReturnsPrompt(t *testing.T) {
	platform := verifiedPlatform()
	platform.profile.Verified = false
	h := newTestServer(platform)
	startCart(t, h)

	rec := doJSON(t, h, http.MethodPost, "/checkout/validate", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var res ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.OK)
	require.NotNil(t, res.Block)
	assert.Equal(t, "verify", string(res.Block.Prompt))
}

func TestSubmitHappyPath(t *testing.T) {
	h := newTestServer(verifiedPlatform())
	startCart(t, h)

	rec := doJSON(t, h, http.MethodPut, "/checkout/address", SetAddressRequest{Address: "12 North St"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, h, http.MethodPut, "/checkout/payment-method", SetPaymentRequest{Selection: "cash"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/checkout/submit", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result service.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ord_9", result.OrderID)
	assert.Equal(t, "/orders/ord_9/track", result.Route)

	// Cart is gone after a successful submission.
	rec = doJSON(t, h, http.MethodGet, "/checkout/cart", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPromoApplyAndClear(t *testing.T) {
	platform := verifiedPlatform()
	platform.promo = &domain.PromoResult{Valid: true, DiscountAmount: 5}
	h := newTestServer(platform)
	startCart(t, h)

	rec := doJSON(t, h, http.MethodPost, "/checkout/promo", ApplyPromoRequest{Code: "SAVE5"})
	require.Equal(t, http.StatusOK, rec.Code)

	var applied struct {
		Promo *domain.PromoResult `json:"promo"`
		Quote *service.Quote      `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &applied))
	assert.True(t, applied.Promo.Valid)
	assert.Equal(t, 5.00, applied.Quote.Totals.Discount)

	rec = doJSON(t, h, http.MethodDelete, "/checkout/promo", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var quote service.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Zero(t, quote.Totals.Discount)
}

func TestHealthz(t *testing.T) {
	h := newTestServer(verifiedPlatform())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
