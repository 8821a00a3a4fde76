// Package service orchestrates the checkout pipeline: cart mutations,
// quote computation, the validation gate, and single-shot order
// submission against the platform API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/checkout/core/ports"
	"github.com/swifteats/checkout/internal/gate"
	"github.com/swifteats/checkout/internal/gate/attemptlog"
	"github.com/swifteats/checkout/internal/pkg/cache"
	"github.com/swifteats/checkout/internal/pkg/events"
	"github.com/swifteats/checkout/internal/pkg/metrics"
)

var (
	// ErrEmptyCart rejects validation or submission of a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidTip rejects a percentage tip outside the offered presets.
	ErrInvalidTip = errors.New("tip percent is not an offered preset")

	// ErrAddressNotLocated rejects an address the geocoder cannot resolve.
	ErrAddressNotLocated = errors.New("address could not be located")
)

// fallbackSubmitMessage is shown when the platform rejects an order
// without a usable message.
const fallbackSubmitMessage = "we couldn't place your order, please try again"

// collaboratorTTL bounds how long payment methods and wallet balances are
// served from cache before re-fetching.
const collaboratorTTL = 30 * time.Second

// SubmissionError is a failed order-creation call. The cart is preserved
// so the customer can re-trigger submission; Message is safe to show.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string { return e.Message }
func (e *SubmissionError) Unwrap() error { return e.Err }

// Deps are the collaborators a Checkout needs. Gate, Attempts, Cache,
// Events, and Metrics may be nil; the corresponding concern is skipped.
type Deps struct {
	Carts     ports.CartStore
	Profiles  ports.ProfileService
	Payments  ports.PaymentMethodService
	Wallet    ports.WalletService
	Addresses ports.AddressService
	Coupons   ports.CouponService
	Orders    ports.OrderService
	Geocoder  ports.Geocoder
	Gate      *gate.Gate
	Attempts  attemptlog.Repository
	Cache     cache.Cache
	Events    *events.Publisher
	Metrics   *metrics.CheckoutMetrics
	Now       func() time.Time
}

// Checkout owns one customer's in-progress order at a time.
type Checkout struct {
	d Deps
}

// New builds the checkout service.
func New(d Deps) *Checkout {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Gate == nil {
		d.Gate = gate.New(d.Attempts, d.Metrics)
	}
	return &Checkout{d: d}
}

// Quote is the derived money view of a cart: stored totals never exist,
// everything here is recomputed per read.
type Quote struct {
	Cart             *domain.Cart  `json:"cart"`
	Totals           domain.Totals `json:"totals"`
	Tip              float64       `json:"tip"`
	GrandTotal       float64       `json:"grand_total"`
	CardExpiringSoon bool          `json:"card_expiring_soon,omitempty"`
}

// SubmitResult is a successful order submission.
type SubmitResult struct {
	OrderID    string  `json:"order_id,omitempty"`
	Route      string  `json:"route"`
	GrandTotal float64 `json:"grand_total"`
	Tip        float64 `json:"tip,omitempty"`
}

// StartCart begins a new cart for the customer, replacing any existing
// one. Items are seeded from the menu flow that precedes checkout.
func (s *Checkout) StartCart(ctx context.Context, customerID string, restaurant *domain.RestaurantRef, items []domain.CartItem) (*domain.Cart, error) {
	cart := domain.NewCart(customerID, restaurant)
	for _, it := range items {
		cart.AddItem(it)
	}
	if err := s.d.Carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetQuote loads the cart and derives totals, tip, and grand total. When
// a saved card is selected it also flags an imminent expiry; the advisory
// is best-effort and never fails the quote.
func (s *Checkout) GetQuote(ctx context.Context, customerID string) (*Quote, error) {
	cart, err := s.d.Carts.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	q := s.quoteFor(cart)

	sel := cart.PaymentSelection
	if sel != "" && sel != domain.PaymentCash && sel != domain.PaymentWallet {
		methods, err := s.paymentMethods(ctx, customerID)
		if err != nil {
			slog.WarnContext(ctx, "could not check card expiry for quote", "error", err)
		} else if card, ok := domain.FindPaymentMethod(methods, sel); ok {
			q.CardExpiringSoon = card.ExpiringSoon(s.d.Now())
		}
	}
	return q, nil
}

func (s *Checkout) quoteFor(cart *domain.Cart) *Quote {
	totals := cart.ComputeTotals()
	tip := cart.TipAmount()
	return &Quote{
		Cart:       cart,
		Totals:     totals,
		Tip:        tip,
		GrandTotal: domain.Round2(totals.Total + tip),
	}
}

// mutate loads the cart, applies fn, and saves. fn returning an error
// aborts without saving.
func (s *Checkout) mutate(ctx context.Context, customerID string, fn func(*domain.Cart) error) (*Quote, error) {
	cart, err := s.d.Carts.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := s.d.Carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.quoteFor(cart), nil
}

// SetItemQuantity updates a line's quantity; 0 removes the line.
func (s *Checkout) SetItemQuantity(ctx context.Context, customerID, itemID string, qty int) (*Quote, error) {
	return s.mutate(ctx, customerID, func(cart *domain.Cart) error {
		return cart.SetItemQuantity(itemID, qty)
	})
}

// RemoveItem deletes a line from the cart.
func (s *Checkout) RemoveItem(ctx context.Context, customerID, itemID string) (*Quote, error) {
	return s.mutate(ctx, customerID, func(cart *domain.Cart) error {
		return cart.RemoveItem(itemID)
	})
}

// SetTip records the tip selection. Percentage tips must be one of the
// offered presets.
func (s *Checkout) SetTip(ctx context.Context, customerID string, sel domain.TipSelection) (*Quote, error) {
	if sel.Kind == domain.TipPercent && !domain.ValidTipPercent(sel.Percent) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTip, sel.Percent)
	}
	return s.mutate(ctx, customerID, func(cart *domain.Cart) error {
		cart.Tip = sel
		return nil
	})
}

// SetPaymentMethod records the selection: cash, wallet, or a saved card
// ID. Validity is the gate's concern, so a stale card ID is accepted here
// and reported with a specific error at validation time.
func (s *Checkout) SetPaymentMethod(ctx context.Context, customerID, selection string) (*Quote, error) {
	return s.mutate(ctx, customerID, func(cart *domain.Cart) error {
		cart.PaymentSelection = selection
		return nil
	})
}

// SetInstructions records delivery instructions.
func (s *Checkout) SetInstructions(ctx context.Context, customerID, instructions string) (*Quote, error) {
	return s.mutate(ctx, customerID, func(cart *domain.Cart) error {
		cart.DeliveryInstructions = instructions
		return nil
	})
}

// SetAddress selects the delivery address. An address without
// coordinates is geocoded first and rejected if the geocoder finds
// nothing — geocoding happens before acceptance, never after.
func (s *Checkout) SetAddress(ctx context.Context, customerID string, addr domain.Address) (*Quote, error) {
	if !addr.Geocoded() {
		lat, lng, err := s.d.Geocoder.Geocode(ctx, addr.Address)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAddressNotLocated, err)
		}
		addr.Lat, addr.Lng = lat, lng
	}
	return s.mutate(ctx, customerID, func(cart *domain.Cart) error {
		cart.DeliveryAddress = &addr
		return nil
	})
}

// ListSavedAddresses returns the customer's saved addresses, preferring
// the structured address book and falling back to the legacy fields on
// the profile for older accounts.
func (s *Checkout) ListSavedAddresses(ctx context.Context, customerID string) ([]domain.Address, error) {
	addrs, err := s.d.Addresses.ListAddresses(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(addrs) > 0 {
		return addrs, nil
	}
	profile, err := s.d.Profiles.GetProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return profile.LegacyAddresses, nil
}

// ApplyPromo validates the code with the coupon service and applies it
// when accepted. A rejected code is returned with its message and does
// not touch the cart; promo failures never block the rest of checkout.
func (s *Checkout) ApplyPromo(ctx context.Context, customerID, code string) (*domain.PromoResult, *Quote, error) {
	cart, err := s.d.Carts.Get(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	req := domain.CouponRequest{
		CustomerID: customerID,
		Subtotal:   cart.Subtotal(),
		CouponCode: code,
	}
	if cart.Restaurant != nil {
		req.RestaurantID = cart.Restaurant.ID
	}

	result, err := s.d.Coupons.ValidateCoupon(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("coupon validation failed: %w", err)
	}
	if !result.Valid {
		return result, s.quoteFor(cart), nil
	}

	cart.ApplyPromo(code, result.DiscountAmount, result.IsFreeDelivery)
	if err := s.d.Carts.Save(ctx, cart); err != nil {
		return nil, nil, err
	}
	return result, s.quoteFor(cart), nil
}

// ClearPromo removes any applied coupon; totals return to their pre-promo
// values.
func (s *Checkout) ClearPromo(ctx context.Context, customerID string) (*Quote, error) {
	return s.mutate(ctx, customerID, func(cart *domain.Cart) error {
		cart.ClearPromo()
		return nil
	})
}

// Validate runs the order validation gate and returns the first block,
// or nil when the order may proceed to confirmation.
func (s *Checkout) Validate(ctx context.Context, customerID string) (*gate.Block, error) {
	_, in, err := s.gateInput(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.d.Gate.Run(ctx, in), nil
}

// Submit runs the gate and, when it clears, packages and submits the
// order. On success the cart is cleared and the cached order list
// invalidated; on failure the cart survives untouched for a manual retry.
func (s *Checkout) Submit(ctx context.Context, customerID string) (*SubmitResult, *gate.Block, error) {
	cart, in, err := s.gateInput(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if block := s.d.Gate.Run(ctx, in); block != nil {
		return nil, block, nil
	}

	// The gate may have fallen back to the default card; persist the
	// effective selection so the wire payload names a real instrument.
	cart.PaymentSelection = in.EffectiveSelection()

	tip := cart.TipAmount()
	grandTotal := in.GrandTotal
	req := domain.BuildOrderRequest(cart, tip, grandTotal)

	s.recordAttempt(ctx, cart, attemptlog.StatusSubmitted, "", "", grandTotal)

	start := s.d.Now()
	result, err := s.d.Orders.CreateOrder(ctx, req)
	if s.d.Metrics != nil {
		s.d.Metrics.SubmitLatencyMS.Observe(float64(s.d.Now().Sub(start).Milliseconds()))
	}
	if err != nil {
		slog.ErrorContext(ctx, "order submission failed", "cart_id", cart.ID, "error", err)
		if s.d.Metrics != nil {
			s.d.Metrics.Submissions.WithLabelValues("failed").Inc()
		}
		subErr := &SubmissionError{Message: submitMessage(err), Err: err}
		s.recordAttempt(ctx, cart, attemptlog.StatusFailed, "", subErr.Message, grandTotal)
		return nil, nil, subErr
	}

	if err := s.d.Carts.Delete(ctx, customerID); err != nil {
		// The order exists; losing the cleanup only risks a stale cart.
		slog.ErrorContext(ctx, "failed to clear cart after submission", "cart_id", cart.ID, "error", err)
	}
	s.invalidateCustomerCaches(ctx, customerID)
	s.recordAttempt(ctx, cart, attemptlog.StatusCompleted, "", result.OrderID, grandTotal)
	if s.d.Metrics != nil {
		s.d.Metrics.Submissions.WithLabelValues("completed").Inc()
	}

	s.publishOrderCreated(ctx, cart, result.OrderID, grandTotal, tip, req.PaymentMethod)

	route := "/orders"
	if result.OrderID != "" {
		route = fmt.Sprintf("/orders/%s/track", result.OrderID)
	}
	slog.InfoContext(ctx, "order created",
		"cart_id", cart.ID, "order_id", result.OrderID, "grand_total", grandTotal)

	return &SubmitResult{
		OrderID:    result.OrderID,
		Route:      route,
		GrandTotal: grandTotal,
		Tip:        tip,
	}, nil, nil
}

// gateInput loads the cart and collaborator state the gate evaluates.
func (s *Checkout) gateInput(ctx context.Context, customerID string) (*domain.Cart, *gate.Input, error) {
	cart, err := s.d.Carts.Get(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	profile, err := s.d.Profiles.GetProfile(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}
	methods, err := s.paymentMethods(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load payment methods: %w", err)
	}
	balance, err := s.walletBalance(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load wallet balance: %w", err)
	}

	return cart, &gate.Input{
		Profile:       profile,
		Cart:          cart,
		Methods:       methods,
		WalletBalance: balance,
		GrandTotal:    cart.GrandTotal(),
		Now:           s.d.Now(),
	}, nil
}

// paymentMethods fetches the saved cards, served from cache within
// collaboratorTTL.
func (s *Checkout) paymentMethods(ctx context.Context, customerID string) ([]domain.PaymentMethod, error) {
	var key string
	if s.d.Cache != nil {
		key = s.d.Cache.GenerateKey("payment-methods", customerID)
		if raw, err := s.d.Cache.Get(ctx, key); err == nil && raw != "" {
			var methods []domain.PaymentMethod
			if json.Unmarshal([]byte(raw), &methods) == nil {
				return methods, nil
			}
		}
	}

	methods, err := s.d.Payments.ListPaymentMethods(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if s.d.Cache != nil {
		if data, err := json.Marshal(methods); err == nil {
			_ = s.d.Cache.Set(ctx, key, string(data), collaboratorTTL)
		}
	}
	return methods, nil
}

// walletBalance fetches the wallet balance, served from cache within
// collaboratorTTL.
func (s *Checkout) walletBalance(ctx context.Context, customerID string) (float64, error) {
	var key string
	if s.d.Cache != nil {
		key = s.d.Cache.GenerateKey("wallet-balance", customerID)
		if raw, err := s.d.Cache.Get(ctx, key); err == nil && raw != "" {
			var balance float64
			if json.Unmarshal([]byte(raw), &balance) == nil {
				return balance, nil
			}
		}
	}

	balance, err := s.d.Wallet.WalletBalance(ctx, customerID)
	if err != nil {
		return 0, err
	}
	if s.d.Cache != nil {
		if data, err := json.Marshal(balance); err == nil {
			_ = s.d.Cache.Set(ctx, key, string(data), collaboratorTTL)
		}
	}
	return balance, nil
}

// invalidateCustomerCaches drops the cached order list plus the
// collaborator entries a fresh order makes stale (the wallet balance
// changes when it was charged).
func (s *Checkout) invalidateCustomerCaches(ctx context.Context, customerID string) {
	if s.d.Cache == nil {
		return
	}
	for _, op := range []string{"orders", "wallet-balance", "payment-methods"} {
		key := s.d.Cache.GenerateKey(op, customerID)
		if err := s.d.Cache.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "cache invalidation failed", "key", key, "error", err)
		}
	}
}

// publishOrderCreated emits the analytics event without holding up the
// response. Detached from the request context so sending the HTTP
// response does not cancel the publish, with its own timeout.
func (s *Checkout) publishOrderCreated(ctx context.Context, cart *domain.Cart, orderID string, total, tip float64, paymentKind string) {
	if s.d.Events == nil {
		return
	}
	evt := events.OrderCreated{
		OrderID:     orderID,
		CartID:      cart.ID,
		CustomerID:  cart.CustomerID,
		Total:       total,
		Tip:         tip,
		PaymentKind: paymentKind,
		CreatedAt:   s.d.Now().UTC(),
	}
	if cart.Restaurant != nil {
		evt.RestaurantID = cart.Restaurant.ID
	}

	pubCtx := context.WithoutCancel(ctx)
	go func() {
		pubCtx, cancel := context.WithTimeout(pubCtx, 5*time.Second)
		defer cancel()
		if err := s.d.Events.PublishOrderCreated(pubCtx, evt); err != nil {
			slog.ErrorContext(pubCtx, "failed to publish order_created event", "order_id", orderID, "error", err)
		}
	}()
}

func (s *Checkout) recordAttempt(ctx context.Context, cart *domain.Cart, status attemptlog.Status, prompt, detail string, grandTotal float64) {
	if s.d.Attempts == nil {
		return
	}
	entry := attemptlog.NewEntry(ctx, cart.ID, cart.CustomerID, status, prompt, detail, grandTotal)
	if err := s.d.Attempts.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to save attempt log entry", "cart_id", cart.ID, "error", err)
	}
}

// submitMessage derives the user-visible failure message: the platform's
// own message when it sent one, otherwise the generic fallback. Transport
// errors never leak their text to the customer.
func submitMessage(err error) string {
	var remote *ports.CollaboratorError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fallbackSubmitMessage
}
