// Package gate runs the ordered precondition checks that must all pass
// before an order may be confirmed and submitted.
//
// The checks run in a fixed sequence and short-circuit on the first
// failure: the customer is shown exactly one prompt per pass, the
// highest-priority one. Identity verification outranks everything, then
// address presence, address coordinates, payment presence, payment
// validity, and finally the restaurant's minimum order amount.
package gate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/gate/attemptlog"
	"github.com/swifteats/checkout/internal/pkg/metrics"
)

// Prompt identifies which selector or flow the client should open in
// response to a block. One tagged value drives one dialog renderer.
type Prompt string

const (
	PromptVerify        Prompt = "verify"
	PromptAddress       Prompt = "address"
	PromptAddressSearch Prompt = "address_search"
	PromptPayment       Prompt = "payment"
	PromptMinOrder      Prompt = "min_order"
)

// Block is a failed gate check: which prompt to open and why.
type Block struct {
	Prompt  Prompt `json:"prompt"`
	Message string `json:"message"`
}

// Input is the snapshot of state the gate evaluates. It is assembled by
// the checkout service from the cart and the collaborator responses, so
// the checks themselves never touch the network.
type Input struct {
	Profile       *domain.CustomerProfile
	Cart          *domain.Cart
	Methods       []domain.PaymentMethod
	WalletBalance float64
	GrandTotal    float64
	Now           time.Time
}

// EffectiveSelection is the payment method the gate validates: the
// explicit cart selection when present, otherwise the default saved card.
// Empty means no method is available at all.
func (in *Input) EffectiveSelection() string {
	if in.Cart.PaymentSelection != "" {
		return in.Cart.PaymentSelection
	}
	if def, ok := domain.DefaultPaymentMethod(in.Methods); ok {
		return def.ID
	}
	return ""
}

// Check is a single gate precondition. Run returns nil when the check
// passes, or the block to surface.
type Check interface {
	Name() string
	Run(in *Input) *Block
}

// Gate evaluates the checks in order. Both repo and m may be nil; attempt
// logging and metrics are then skipped.
type Gate struct {
	checks []Check
	repo   attemptlog.Repository
	m      *metrics.CheckoutMetrics
}

// New builds a gate with the standard check sequence.
func New(repo attemptlog.Repository, m *metrics.CheckoutMetrics) *Gate {
	return &Gate{
		checks: []Check{
			identityVerified{},
			addressPresent{},
			addressGeocoded{},
			paymentPresent{},
			paymentValid{},
			minimumOrder{},
		},
		repo: repo,
		m:    m,
	}
}

// Run evaluates the checks in order and returns the first block, or nil
// when all pass. Each run appends STARTED and then BLOCKED or PASSED to
// the attempt log.
func (g *Gate) Run(ctx context.Context, in *Input) *Block {
	g.record(ctx, in, attemptlog.StatusStarted, "", "")

	for _, c := range g.checks {
		if b := c.Run(in); b != nil {
			slog.InfoContext(ctx, "checkout blocked",
				"cart_id", in.Cart.ID,
				"check", c.Name(),
				"prompt", string(b.Prompt),
			)
			if g.m != nil {
				g.m.GateBlocks.WithLabelValues(string(b.Prompt)).Inc()
			}
			g.record(ctx, in, attemptlog.StatusBlocked, string(b.Prompt), b.Message)
			return b
		}
	}

	g.record(ctx, in, attemptlog.StatusPassed, "", "")
	return nil
}

func (g *Gate) record(ctx context.Context, in *Input, status attemptlog.Status, prompt, detail string) {
	if g.repo == nil {
		return
	}
	entry := attemptlog.NewEntry(ctx, in.Cart.ID, in.Cart.CustomerID, status, prompt, detail, in.GrandTotal)
	if err := g.repo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to save attempt log entry", "cart_id", in.Cart.ID, "error", err)
	}
}

// --- identityVerified ---

type identityVerified struct{}

func (identityVerified) Name() string { return "identity_verified" }

func (identityVerified) Run(in *Input) *Block {
	if in.Profile == nil || !in.Profile.Verified {
		return &Block{
			Prompt:  PromptVerify,
			Message: "identity verification is required before placing an order",
		}
	}
	return nil
}

// --- addressPresent ---

type addressPresent struct{}

func (addressPresent) Name() string { return "address_present" }

func (addressPresent) Run(in *Input) *Block {
	if in.Cart.DeliveryAddress == nil {
		return &Block{
			Prompt:  PromptAddress,
			Message: "select a delivery address",
		}
	}
	return nil
}

// --- addressGeocoded ---

type addressGeocoded struct{}

func (addressGeocoded) Name() string { return "address_geocoded" }

func (addressGeocoded) Run(in *Input) *Block {
	if !in.Cart.DeliveryAddress.Geocoded() {
		return &Block{
			Prompt:  PromptAddressSearch,
			Message: "the selected address has no location; search for it and select it again",
		}
	}
	return nil
}

// --- paymentPresent ---

type paymentPresent struct{}

func (paymentPresent) Name() string { return "payment_present" }

func (paymentPresent) Run(in *Input) *Block {
	if in.EffectiveSelection() == "" {
		return &Block{
			Prompt:  PromptPayment,
			Message: "add a payment method to continue",
		}
	}
	return nil
}

// --- paymentValid ---

type paymentValid struct{}

func (paymentValid) Name() string { return "payment_valid" }

func (paymentValid) Run(in *Input) *Block {
	err := domain.ValidatePaymentMethod(in.EffectiveSelection(), in.Methods, in.WalletBalance, in.GrandTotal, in.Now)
	if err != nil {
		return &Block{
			Prompt:  PromptPayment,
			Message: err.Error(),
		}
	}
	return nil
}

// --- minimumOrder ---

type minimumOrder struct{}

func (minimumOrder) Name() string { return "minimum_order" }

func (minimumOrder) Run(in *Input) *Block {
	r := in.Cart.Restaurant
	if r == nil || r.MinOrderAmount <= 0 {
		return nil
	}
	sub := in.Cart.Subtotal()
	if sub < r.MinOrderAmount {
		shortfall := domain.Round2(r.MinOrderAmount - sub)
		return &Block{
			Prompt: PromptMinOrder,
			Message: fmt.Sprintf("add %s more to reach the %s minimum order",
				domain.FormatAmount(shortfall), domain.FormatAmount(r.MinOrderAmount)),
		}
	}
	return nil
}
