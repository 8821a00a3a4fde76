package gate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifteats/checkout/internal/checkout/core/domain"
	"github.com/swifteats/checkout/internal/gate/attemptlog"
)

var april2024 = time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

// passingInput builds a gate input that clears every check; tests break
// one dimension at a time.
func passingInput() *Input {
	cart := domain.NewCart("cust1", &domain.RestaurantRef{
		ID:             "rest1",
		MinOrderAmount: 15.00,
		DeliveryFee:    3.00,
	})
	cart.AddItem(domain.CartItem{MenuItemID: "m1", Price: 10.00, Quantity: 2})
	cart.DeliveryAddress = &domain.Address{Address: "12 North St", Lat: 40.71, Lng: -74.0}
	cart.PaymentSelection = domain.PaymentCash

	return &Input{
		Profile:       &domain.CustomerProfile{ID: "cust1", Verified: true},
		Cart:          cart,
		Methods:       []domain.PaymentMethod{{ID: "pm1", Brand: "Visa", Last4: "4242", ExpMonth: 12, ExpYear: 30, IsDefault: true}},
		WalletBalance: 0,
		GrandTotal:    cart.GrandTotal(),
		Now:           april2024,
	}
}

func TestGateAllChecksPass(t *testing.T) {
	g := New(nil, nil)
	assert.Nil(t, g.Run(context.Background(), passingInput()))
}

func TestGateBlocksInOrder(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(in *Input)
		wantPrompt Prompt
	}{
		{
			name:       "unverifiedProfile",
			mutate:     func(in *Input) { in.Profile.Verified = false },
			wantPrompt: PromptVerify,
		},
		{
			name:       "missingAddress",
			mutate:     func(in *Input) { in.Cart.DeliveryAddress = nil },
			wantPrompt: PromptAddress,
		},
		{
			name: "ungeocodedAddress",
			mutate: func(in *Input) {
				in.Cart.DeliveryAddress = &domain.Address{Address: "12 North St"}
			},
			wantPrompt: PromptAddressSearch,
		},
		{
			name: "noPaymentMethodAnywhere",
			mutate: func(in *Input) {
				in.Cart.PaymentSelection = ""
				in.Methods = nil
			},
			wantPrompt: PromptPayment,
		},
		{
			name: "expiredCard",
			mutate: func(in *Input) {
				in.Cart.PaymentSelection = "pm_old"
				in.Methods = append(in.Methods, domain.PaymentMethod{
					ID: "pm_old", Brand: "Visa", Last4: "1111", ExpMonth: 3, ExpYear: 24,
				})
			},
			wantPrompt: PromptPayment,
		},
		{
			name: "insufficientWallet",
			mutate: func(in *Input) {
				in.Cart.PaymentSelection = domain.PaymentWallet
				in.WalletBalance = in.GrandTotal - 0.01
			},
			wantPrompt: PromptPayment,
		},
		{
			name: "belowMinimumOrder",
			mutate: func(in *Input) {
				require.NoError(t, in.Cart.SetItemQuantity(in.Cart.Items[0].ID, 1))
			},
			wantPrompt: PromptMinOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := passingInput()
			tt.mutate(in)

			block := New(nil, nil).Run(context.Background(), in)
			require.NotNil(t, block)
			assert.Equal(t, tt.wantPrompt, block.Prompt)
		})
	}
}

func TestGateShortCircuitsOnHighestPriorityFailure(t *testing.T) {
	// Unverified profile AND missing address: only the verification
	// prompt fires; the address prompt is never shown in the same pass.
	in := passingInput()
	in.Profile.Verified = false
	in.Cart.DeliveryAddress = nil

	block := New(nil, nil).Run(context.Background(), in)
	require.NotNil(t, block)
	assert.Equal(t, PromptVerify, block.Prompt)
}

func TestGateFallsBackToDefaultCard(t *testing.T) {
	in := passingInput()
	in.Cart.PaymentSelection = ""
	// pm1 is flagged default in passingInput; the gate validates it.
	assert.Nil(t, New(nil, nil).Run(context.Background(), in))
}

func TestGateMinimumOrderShortfallMessage(t *testing.T) {
	in := passingInput()
	in.Cart.Items[0].Price = 12.50
	require.NoError(t, in.Cart.SetItemQuantity(in.Cart.Items[0].ID, 1))

	block := New(nil, nil).Run(context.Background(), in)
	require.NotNil(t, block)
	assert.Equal(t, PromptMinOrder, block.Prompt)
	assert.Contains(t, block.Message, "$2.50 more")

	in.Cart.Items[0].Price = 15.00
	assert.Nil(t, New(nil, nil).Run(context.Background(), in), "meeting the minimum exactly passes")
}

func TestGateExpiredCardMessage(t *testing.T) {
	in := passingInput()
	in.Cart.PaymentSelection = "pm_old"
	in.Methods = []domain.PaymentMethod{
		{ID: "pm_old", Brand: "Visa", Last4: "1111", ExpMonth: 3, ExpYear: 24},
	}
	in.Now = april2024

	block := New(nil, nil).Run(context.Background(), in)
	require.NotNil(t, block)
	assert.Contains(t, block.Message, "expired")
}

// recordingRepo captures attempt log writes.
type recordingRepo struct {
	entries []*attemptlog.Attempt
}

func (r *recordingRepo) Save(_ context.Context, entry *attemptlog.Attempt) error {
	r.entries = append(r.entries, entry)
	return nil
}

func TestGateWritesAttemptLog(t *testing.T) {
	repo := &recordingRepo{}

	in := passingInput()
	in.Profile.Verified = false
	block := New(repo, nil).Run(context.Background(), in)
	require.NotNil(t, block)

	require.Len(t, repo.entries, 2)
	assert.Equal(t, attemptlog.StatusStarted, repo.entries[0].Status)
	assert.Equal(t, attemptlog.StatusBlocked, repo.entries[1].Status)
	assert.Equal(t, string(PromptVerify), repo.entries[1].Prompt)

	repo.entries = nil
	assert.Nil(t, New(repo, nil).Run(context.Background(), passingInput()))
	require.Len(t, repo.entries, 2)
	assert.Equal(t, attemptlog.StatusPassed, repo.entries[1].Status)
}
