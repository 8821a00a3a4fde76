package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/checkout/core/service"
	"github.com/swifteats/checkout/internal/checkout/infra/httpx/middlewares"
)

// Handler exposes the checkout pipeline over HTTP.
type Handler struct {
	checkout *service.Checkout
}

// NewHandler wraps the checkout service.
func NewHandler(checkout *service.Checkout) *Handler {
	return &Handler{checkout: checkout}
}

// StartCart begins (or replaces) the customer's cart.
func (h *Handler) StartCart(w http.ResponseWriter, r *http.Request) {
	var req StartCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Restaurant == nil || req.Restaurant.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "restaurant is required")
		return
	}

	items := make([]domain.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.MenuItemID == "" || it.Price < 0 || it.Quantity < 1 {
			writeError(w, http.StatusBadRequest, "invalid_item", "menu_item_id, price, and quantity must be valid")
			return
		}
		items = append(items, it.toDomain())
	}

	cart, err := h.checkout.StartCart(r.Context(), middlewares.CustomerID(r.Context()), req.Restaurant.toDomain(), items)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cart)
}

// GetCart returns the cart with derived totals, tip, and grand total.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	quote, err := h.checkout.GetQuote(r.Context(), middlewares.CustomerID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// UpdateItem sets a line item's quantity. Quantity 0 removes the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity must not be negative")
		return
	}

	quote, err := h.checkout.SetItemQuantity(r.Context(), middlewares.CustomerID(r.Context()), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// RemoveItem deletes a line item.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	quote, err := h.checkout.RemoveItem(r.Context(), middlewares.CustomerID(r.Context()), chi.URLParam(r, "itemID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// SetAddress selects the delivery address, geocoding it first when it
// arrives without coordinates.
func (h *Handler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var req SetAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "address is required")
		return
	}

	quote, err := h.checkout.SetAddress(r.Context(), middlewares.CustomerID(r.Context()), domain.Address{
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
		Label:   req.Label,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// ListAddresses returns the customer's saved addresses.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.checkout.ListSavedAddresses(r.Context(), middlewares.CustomerID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addrs)
}

// SetPayment records the payment selection (cash, wallet, or card ID).
func (h *Handler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req SetPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Selection == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "selection is required")
		return
	}

	quote, err := h.checkout.SetPaymentMethod(r.Context(), middlewares.CustomerID(r.Context()), req.Selection)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// SetTip records the tip selection.
func (h *Handler) SetTip(w http.ResponseWriter, r *http.Request) {
	var req SetTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	sel := domain.TipSelection{
		Kind:        domain.TipKind(req.Kind),
		Percent:     req.Percent,
		CustomInput: req.CustomInput,
	}
	switch sel.Kind {
	case domain.TipNone, domain.TipPercent, domain.TipCustom:
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "kind must be none, percent, or custom")
		return
	}

	quote, err := h.checkout.SetTip(r.Context(), middlewares.CustomerID(r.Context()), sel)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// SetInstructions records delivery instructions.
func (h *Handler) SetInstructions(w http.ResponseWriter, r *http.Request) {
	var req SetInstructionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	quote, err := h.checkout.SetInstructions(r.Context(), middlewares.CustomerID(r.Context()), req.Instructions)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// ApplyPromo validates and applies a coupon. A rejected code comes back
// 200 with valid=false — promo failures are scoped to the promo widget
// and never block checkout.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req ApplyPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	result, quote, err := h.checkout.ApplyPromo(r.Context(), middlewares.CustomerID(r.Context()), req.Code)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"promo": result,
		"quote": quote,
	})
}

// ClearPromo removes the applied coupon.
func (h *Handler) ClearPromo(w http.ResponseWriter, r *http.Request) {
	quote, err := h.checkout.ClearPromo(r.Context(), middlewares.CustomerID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Validate runs the gate without submitting.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	block, err := h.checkout.Validate(r.Context(), middlewares.CustomerID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if block != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{OK: false, Block: block})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{OK: true})
}

// Submit runs the gate and creates the order. The confirmation step is
// the client's: this endpoint is only called after explicit confirmation.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	result, block, err := h.checkout.Submit(r.Context(), middlewares.CustomerID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if block != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "checkout_blocked", Block: block})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// writeServiceError maps service errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var subErr *service.SubmissionError
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		writeError(w, http.StatusNotFound, "cart_not_found", "no active cart; start one first")
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item_not_found", "cart item not found")
	case errors.Is(err, service.ErrEmptyCart):
		writeError(w, http.StatusUnprocessableEntity, "empty_cart", "cart has no items")
	case errors.Is(err, service.ErrInvalidTip):
		writeError(w, http.StatusBadRequest, "invalid_tip", err.Error())
	case errors.Is(err, service.ErrAddressNotLocated):
		writeError(w, http.StatusUnprocessableEntity, "address_not_located", err.Error())
	case errors.As(err, &subErr):
		// Cart is preserved; the customer re-triggers submission manually.
		writeError(w, http.StatusBadGateway, "submission_failed", subErr.Message)
	default:
		slog.ErrorContext(r.Context(), "checkout request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
