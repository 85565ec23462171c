package pricing_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/noah-isme/backend-faktur/internal/pricing"
)

func TestParseDiscountMode(t *testing.T) {
	if got := pricing.ParseDiscountMode("percent"); got != pricing.ModePercent {
		t.Fatalf("expected percent mode, got %q", got)
	}
	if got := pricing.ParseDiscountMode("amount"); got != pricing.ModeAmount {
		t.Fatalf("expected amount mode, got %q", got)
	}
	if got := pricing.ParseDiscountMode("definitely-not-a-mode"); got != pricing.ModeAmount {
		t.Fatalf("unknown mode should default to amount, got %q", got)
	}
	if got := pricing.ParseDiscountMode(""); got != pricing.ModeAmount {
		t.Fatalf("empty mode should default to amount, got %q", got)
	}
}

func TestResolveAmountPercentMode(t *testing.T) {
	if got := pricing.ResolveAmount(20000, pricing.ModePercent, "10"); got != 2000 {
		t.Fatalf("10%% of 20000 should be 2000, got %d", got)
	}
	if got := pricing.ResolveAmount(10001, pricing.ModePercent, "2.5"); got != 250 {
		t.Fatalf("2.5%% of 10001 should round to 250, got %d", got)
	}
	if got := pricing.ResolveAmount(0, pricing.ModePercent, "50"); got != 0 {
		t.Fatalf("percent of zero base should be 0, got %d", got)
	}
}

func TestResolveAmountAmountMode(t *testing.T) {
	if got := pricing.ResolveAmount(15000, pricing.ModeAmount, "2000"); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
	if got := pricing.ResolveAmount(15000, pricing.ModeAmount, "1999.6"); got != 2000 {
		t.Fatalf("fractional amount should round, got %d", got)
	}
}

func TestResolveAmountUnparseableInput(t *testing.T) {
	for _, input := range []string{"", "abc", "10%", "-"} {
		if got := pricing.ResolveAmount(10000, pricing.ModeAmount, input); got != 0 {
			t.Fatalf("input %q should resolve to 0, got %d", input, got)
		}
		if got := pricing.ResolveAmount(10000, pricing.ModePercent, input); got != 0 {
			t.Fatalf("percent input %q should resolve to 0, got %d", input, got)
		}
	}
}

func TestResolveAmountNoClamp(t *testing.T) {
	got := pricing.ResolveAmount(5000, pricing.ModeAmount, "8000")
	if got != 8000 {
		t.Fatalf("oversized amount discount must not be clamped, got %d", got)
	}
}

func TestResolvePercentEchoesPercentInput(t *testing.T) {
	got := pricing.ResolvePercent(20000, pricing.ModePercent, "12.5", 2500)
	if got != "12.5" {
		t.Fatalf("percent mode should echo input untouched, got %q", got)
	}
}

func TestResolvePercentZeroBase(t *testing.T) {
	if got := pricing.ResolvePercent(0, pricing.ModeAmount, "500", 500); got != "0" {
		t.Fatalf("zero base should short-circuit to \"0\", got %q", got)
	}
}

func TestResolvePercentDerivedFromAmount(t *testing.T) {
	got := pricing.ResolvePercent(20000, pricing.ModeAmount, "2000", 2000)
	if got != "10.00" {
		t.Fatalf("expected 10.00, got %q", got)
	}
}

func TestAmountToPercentRoundTrip(t *testing.T) {
	cases := []struct {
		rawTotal pricing.Money
		amount   string
	}{
		{20000, "2000"},
		{15000, "2000"},
		{31000, "1550"},
		{99999, "12345"},
		{10000, "1"},
	}
	for _, tc := range cases {
		resolved := pricing.ResolveAmount(tc.rawTotal, pricing.ModeAmount, tc.amount)
		pctStr := pricing.ResolvePercent(tc.rawTotal, pricing.ModeAmount, tc.amount, resolved)
		pct, err := strconv.ParseFloat(pctStr, 64)
		if err != nil {
			t.Fatalf("derived percent %q did not parse: %v", pctStr, err)
		}
		back := pricing.ResolveAmount(tc.rawTotal, pricing.ModePercent, pctStr)
		diff := math.Abs(float64(back - resolved))
		tolerance := 0.0001 * float64(tc.rawTotal)
		if tolerance < 1 {
			tolerance = 1
		}
		if diff > tolerance {
			t.Fatalf("round trip %d @ %s: amount %d came back as %d (pct %f)", tc.rawTotal, tc.amount, resolved, back, pct)
		}
	}
}
