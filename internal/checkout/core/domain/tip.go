package domain

import "strconv"

// TipKind discriminates the three ways a customer can tip.
type TipKind string

const (
	TipNone    TipKind = "none"
	TipPercent TipKind = "percent"
	TipCustom  TipKind = "custom"
)

// TipPresets are the percentage options offered at checkout.
var TipPresets = []int{10, 15, 20}

// TipSelection is a tagged union: Percent is read only when Kind is
// TipPercent, CustomInput only when Kind is TipCustom.
type TipSelection struct {
	Kind        TipKind `json:"kind"`
	Percent     int     `json:"percent,omitempty"`
	CustomInput string  `json:"custom_input,omitempty"`
}

// ValidTipPercent reports whether p is one of the offered presets.
func ValidTipPercent(p int) bool {
	for _, preset := range TipPresets {
		if p == preset {
			return true
		}
	}
	return false
}

// ComputeTip derives the tip amount from the current subtotal and the
// customer's selection. It is pure: callers re-invoke it whenever the
// subtotal or the selection changes.
//
// A custom input that fails to parse, or parses negative, yields 0 — the
// tip never reduces the total.
func ComputeTip(subtotal float64, sel TipSelection) float64 {
	switch sel.Kind {
	case TipPercent:
		return Round2(subtotal * float64(sel.Percent) / 100)
	case TipCustom:
		v, err := strconv.ParseFloat(sel.CustomInput, 64)
		if err != nil || v < 0 {
			return 0
		}
		return Round2(v)
	default:
		return 0
	}
}
