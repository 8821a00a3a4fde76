package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
}

func TestPaymentMethodExpired(t *testing.T) {
	card := PaymentMethod{ID: "pm1", Brand: "Visa", Last4: "4242", ExpMonth: 1, ExpYear: 24}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "monthBeforeExpiry", now: at(2023, time.December), want: false},
		{name: "expiryMonthStillValid", now: at(2024, time.January), want: false},
		{name: "monthAfterExpiry", now: at(2024, time.February), want: true},
		{name: "yearAfterExpiry", now: at(2025, time.June), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, card.Expired(tt.now))
		})
	}
}

func TestPaymentMethodExpiredFourDigitYear(t *testing.T) {
	// Some upstream records store the full year; comparison still happens
	// in two-digit space.
	card := PaymentMethod{ExpMonth: 6, ExpYear: 2024}
	assert.False(t, card.Expired(at(2024, time.June)))
	assert.True(t, card.Expired(at(2024, time.July)))
}

func TestPaymentMethodExpiringSoon(t *testing.T) {
	tests := []struct {
		name string
		card PaymentMethod
		now  time.Time
		want bool
	}{
		{
			name: "expiresThisMonth",
			card: PaymentMethod{ExpMonth: 4, ExpYear: 24},
			now:  at(2024, time.April),
			want: true,
		},
		{
			name: "expiresNextMonth",
			card: PaymentMethod{ExpMonth: 5, ExpYear: 24},
			now:  at(2024, time.April),
			want: true,
		},
		{
			name: "decemberToJanuaryRollover",
			card: PaymentMethod{ExpMonth: 1, ExpYear: 25},
			now:  at(2024, time.December),
			want: true,
		},
		{
			name: "twoMonthsOut",
			card: PaymentMethod{ExpMonth: 6, ExpYear: 24},
			now:  at(2024, time.April),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.card.ExpiringSoon(tt.now))
		})
	}
}

func TestValidatePaymentMethodCash(t *testing.T) {
	// Cash passes regardless of wallet balance or saved cards.
	err := ValidatePaymentMethod(PaymentCash, nil, 0, 999.99, at(2024, time.April))
	assert.NoError(t, err)
}

func TestValidatePaymentMethodWallet(t *testing.T) {
	now := at(2024, time.April)

	t.Run("exactBalanceIsSufficient", func(t *testing.T) {
		assert.NoError(t, ValidatePaymentMethod(PaymentWallet, nil, 25.00, 25.00, now))
	})

	t.Run("oneCentShortIsInsufficient", func(t *testing.T) {
		err := ValidatePaymentMethod(PaymentWallet, nil, 24.99, 25.00, now)
		require.Error(t, err)

		var payErr *PaymentError
		require.ErrorAs(t, err, &payErr)
		assert.Contains(t, payErr.Reason, "$24.99")
		assert.Contains(t, payErr.Reason, "$25.00")
	})
}

func TestValidatePaymentMethodCard(t *testing.T) {
	methods := []PaymentMethod{
		{ID: "pm_ok", Brand: "Visa", Last4: "4242", ExpMonth: 12, ExpYear: 30},
		{ID: "pm_old", Brand: "Mastercard", Last4: "4444", ExpMonth: 3, ExpYear: 24},
	}
	april2024 := at(2024, time.April)

	t.Run("validCard", func(t *testing.T) {
		assert.NoError(t, ValidatePaymentMethod("pm_ok", methods, 0, 50, april2024))
	})

	t.Run("expiredCard", func(t *testing.T) {
		err := ValidatePaymentMethod("pm_old", methods, 0, 50, april2024)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
		assert.Contains(t, err.Error(), "Mastercard")
		assert.Contains(t, err.Error(), "4444")
	})

	t.Run("unknownCard", func(t *testing.T) {
		err := ValidatePaymentMethod("pm_missing", methods, 0, 50, april2024)
		require.Error(t, err)
	})
}

func TestDefaultPaymentMethod(t *testing.T) {
	methods := []PaymentMethod{
		{ID: "pm1"},
		{ID: "pm2", IsDefault: true},
	}
	def, ok := DefaultPaymentMethod(methods)
	require.True(t, ok)
	assert.Equal(t, "pm2", def.ID)

	_, ok = DefaultPaymentMethod([]PaymentMethod{{ID: "pm1"}})
	assert.False(t, ok)
}
