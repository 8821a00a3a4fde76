package domain

import (
	"fmt"
	"time"
)

// Reserved payment selections. Anything else is the ID of a saved card.
const (
	PaymentCash   = "cash"
	PaymentWallet = "wallet"
)

// PaymentMethod is a saved card as returned by the payment-methods API.
// Expiry is stored with a two-digit year, matching what card networks
// print on the plastic.
type PaymentMethod struct {
	ID        string `json:"id"`
	Brand     string `json:"brand"`
	Last4     string `json:"last4"`
	ExpMonth  int    `json:"exp_month"`
	ExpYear   int    `json:"exp_year"`
	IsDefault bool   `json:"is_default"`
}

// twoDigitYear normalises a stored expiry year to the two-digit form the
// comparison rules are defined over.
func twoDigitYear(y int) int {
	if y >= 100 {
		return y % 100
	}
	return y
}

// Expired reports whether the card's expiry is strictly before the
// current month. A card expiring this month is still usable.
func (m PaymentMethod) Expired(now time.Time) bool {
	yy := now.Year() % 100
	mm := int(now.Month())
	ey := twoDigitYear(m.ExpYear)
	return ey < yy || (ey == yy && m.ExpMonth < mm)
}

// ExpiringSoon reports whether the card expires in the current month or
// the next calendar month, handling the December to January rollover.
func (m PaymentMethod) ExpiringSoon(now time.Time) bool {
	yy := now.Year() % 100
	mm := int(now.Month())
	ey := twoDigitYear(m.ExpYear)

	if ey == yy && m.ExpMonth == mm {
		return true
	}
	nextMonth, nextYear := mm+1, yy
	if mm == 12 {
		nextMonth, nextYear = 1, yy+1
	}
	return ey == nextYear && m.ExpMonth == nextMonth
}

// PaymentError is a validation failure with a human-readable reason the
// UI shows inline in the payment sheet.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string { return e.Reason }

// DefaultPaymentMethod returns the card flagged as default, if any.
func DefaultPaymentMethod(methods []PaymentMethod) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.IsDefault {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// FindPaymentMethod looks up a saved card by ID.
func FindPaymentMethod(methods []PaymentMethod, id string) (PaymentMethod, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// ValidatePaymentMethod checks whether the selected instrument can cover
// grandTotal. A nil return means valid.
//
//   - cash: always valid.
//   - wallet: valid iff walletBalance >= grandTotal; equality passes.
//   - a saved card ID: valid iff the card exists and is not expired.
//
// An empty selection is the caller's problem (the validation gate treats
// it as a missing payment method before ever calling here).
func ValidatePaymentMethod(selection string, methods []PaymentMethod, walletBalance, grandTotal float64, now time.Time) error {
	switch selection {
	case PaymentCash:
		return nil
	case PaymentWallet:
		if walletBalance >= grandTotal {
			return nil
		}
		return &PaymentError{Reason: fmt.Sprintf(
			"insufficient wallet balance: have %s, need %s",
			FormatAmount(walletBalance), FormatAmount(grandTotal),
		)}
	default:
		card, ok := FindPaymentMethod(methods, selection)
		if !ok {
			return &PaymentError{Reason: "selected payment method no longer exists"}
		}
		if card.Expired(now) {
			return &PaymentError{Reason: fmt.Sprintf(
				"%s card ending %s is expired", card.Brand, card.Last4,
			)}
		}
		return nil
	}
}
