package costing

import (
	"math"

	"github.com/noah-isme/backend-faktur/internal/pricing"
)

// Component is one ingredient-quantity pairing attached to a size tier.
// Quantity and the ingredient's cost unit are assumed to agree; no unit
// conversion is performed.
type Component struct {
	ID             string
	IngredientID   string
	IngredientName string
	Unit           string
	QuantityNeeded float64
	UnitCost       pricing.Money
	CalculatedCost pricing.Money
}

// Summary holds every derived cost figure for one size tier.
type Summary struct {
	Components         []Component
	IngredientSubtotal pricing.Money
	LaborPercent       float64
	LaborCost          pricing.Money
	FinalCOGS          pricing.Money
	SellingPrice       pricing.Money
	Profit             pricing.Money
	Margin             float64
}

// ComponentCost prices a single component: quantity × unit cost rounded to
// minor units.
func ComponentCost(quantity float64, unitCost pricing.Money) pricing.Money {
	return pricing.Money(math.Round(quantity * float64(unitCost)))
}

// Summarize recomputes the full cost breakdown for a size tier. Margin is 0
// when the selling price is not positive, never NaN. A labor percent outside
// 0–100 is applied as given.
func Summarize(components []Component, laborPercent float64, sellingPrice pricing.Money) Summary {
	out := make([]Component, len(components))
	copy(out, components)
	var subtotal pricing.Money
	for i := range out {
		out[i].CalculatedCost = ComponentCost(out[i].QuantityNeeded, out[i].UnitCost)
		subtotal += out[i].CalculatedCost
	}
	labor := pricing.Money(math.Round(float64(subtotal) * laborPercent / 100))
	cogs := subtotal + labor
	profit := sellingPrice - cogs
	var margin float64
	if sellingPrice > 0 {
		margin = float64(profit) / float64(sellingPrice) * 100
	}
	return Summary{
		Components:         out,
		IngredientSubtotal: subtotal,
		LaborPercent:       laborPercent,
		LaborCost:          labor,
		FinalCOGS:          cogs,
		SellingPrice:       sellingPrice,
		Profit:             profit,
		Margin:             margin,
	}
}
