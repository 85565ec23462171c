package pricing

import (
	"math"
	"strconv"

	"github.com/noah-isme/backend-faktur/internal/common"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// DiscountMode tags which of the two discount representations is
// authoritative for a given input.
type DiscountMode string

const (
	// ModeAmount treats the discount input as an absolute currency amount.
	ModeAmount DiscountMode = "amount"
	// ModePercent treats the discount input as a percentage of the base.
	ModePercent DiscountMode = "percent"
)

// ParseDiscountMode maps a raw mode string to a DiscountMode, defaulting to
// amount mode for anything unrecognised.
func ParseDiscountMode(value string) DiscountMode {
	if value == string(ModePercent) {
		return ModePercent
	}
	return ModeAmount
}

// ResolveAmount converts the authoritative discount input into a currency
// amount against the provided base. Unparseable input resolves to 0. The
// amount is intentionally not clamped to [0, rawTotal]; an oversized
// amount-mode discount produces a negative line total downstream.
func ResolveAmount(rawTotal Money, mode DiscountMode, input string) Money {
	value := common.ParseFloatDefault(input, 0)
	if mode == ModePercent {
		return Money(math.Round(value / 100 * float64(rawTotal)))
	}
	return Money(math.Round(value))
}

// ResolvePercent derives the display-side percentage for a discount. When
// percent mode is authoritative the user's input is echoed back untouched.
// Otherwise the percentage is derived from the resolved amount, formatted to
// two decimals, with a zero base short-circuiting to "0" so the division can
// never blow up.
func ResolvePercent(rawTotal Money, mode DiscountMode, input string, amount Money) string {
	if mode == ModePercent {
		return input
	}
	if rawTotal == 0 {
		return "0"
	}
	pct := float64(amount) / float64(rawTotal) * 100
	return strconv.FormatFloat(pct, 'f', 2, 64)
}
