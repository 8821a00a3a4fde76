package domain

import (
	"fmt"
	"math"
)

// Round2 rounds a monetary amount to two decimal places, half away from
// zero. All derived totals in this package pass through it so that the
// same cart always yields the same cent values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders a monetary amount for user-facing messages,
// e.g. 2.5 -> "$2.50".
func FormatAmount(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
