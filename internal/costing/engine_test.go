package costing_test

import (
	"math"
	"testing"

	"github.com/noah-isme/backend-faktur/internal/costing"
)

func TestSummarizeRecipe(t *testing.T) {
	components := []costing.Component{
		{IngredientName: "flour", Unit: "g", QuantityNeeded: 500, UnitCost: 20},
		{IngredientName: "sugar", Unit: "g", QuantityNeeded: 200, UnitCost: 15},
	}
	summary := costing.Summarize(components, 20, 25000)

	if summary.Components[0].CalculatedCost != 10000 {
		t.Fatalf("flour should cost 10000, got %d", summary.Components[0].CalculatedCost)
	}
	if summary.Components[1].CalculatedCost != 3000 {
		t.Fatalf("sugar should cost 3000, got %d", summary.Components[1].CalculatedCost)
	}
	if summary.IngredientSubtotal != 13000 {
		t.Fatalf("expected subtotal 13000, got %d", summary.IngredientSubtotal)
	}
	if summary.LaborCost != 2600 {
		t.Fatalf("expected labor 2600, got %d", summary.LaborCost)
	}
	if summary.FinalCOGS != 15600 {
		t.Fatalf("expected COGS 15600, got %d", summary.FinalCOGS)
	}
	if summary.Profit != 9400 {
		t.Fatalf("expected profit 9400, got %d", summary.Profit)
	}
	if math.Abs(summary.Margin-37.6) > 1e-9 {
		t.Fatalf("expected margin 37.6, got %v", summary.Margin)
	}
}

func TestSummarizeFractionalQuantityRounds(t *testing.T) {
	components := []costing.Component{{QuantityNeeded: 0.33, UnitCost: 1000}}
	summary := costing.Summarize(components, 0, 0)
	if summary.Components[0].CalculatedCost != 330 {
		t.Fatalf("expected 330, got %d", summary.Components[0].CalculatedCost)
	}
}

func TestSummarizeZeroSellingPriceMargin(t *testing.T) {
	components := []costing.Component{{QuantityNeeded: 10, UnitCost: 100}}
	for _, price := range []int64{0, -500} {
		summary := costing.Summarize(components, 10, price)
		if summary.Margin != 0 {
			t.Fatalf("selling price %d: margin must be 0, got %v", price, summary.Margin)
		}
		if math.IsNaN(summary.Margin) {
			t.Fatalf("margin must never be NaN")
		}
	}
}

func TestSummarizeEmptyRecipe(t *testing.T) {
	summary := costing.Summarize(nil, 25, 10000)
	if summary.IngredientSubtotal != 0 || summary.LaborCost != 0 || summary.FinalCOGS != 0 {
		t.Fatalf("empty recipe should cost nothing, got %+v", summary)
	}
	if summary.Profit != 10000 {
		t.Fatalf("expected profit 10000, got %d", summary.Profit)
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	components := []costing.Component{{QuantityNeeded: 2, UnitCost: 50}}
	_ = costing.Summarize(components, 0, 0)
	if components[0].CalculatedCost != 0 {
		t.Fatalf("input slice was mutated: %+v", components[0])
	}
}

func TestAddRemoveMonotonicity(t *testing.T) {
	base := []costing.Component{{QuantityNeeded: 500, UnitCost: 20}}
	withExtra := append(append([]costing.Component{}, base...), costing.Component{QuantityNeeded: 100, UnitCost: 30})

	before := costing.Summarize(base, 10, 0)
	after := costing.Summarize(withExtra, 10, 0)
	if after.FinalCOGS <= before.FinalCOGS {
		t.Fatalf("adding a component must raise COGS: %d -> %d", before.FinalCOGS, after.FinalCOGS)
	}

	removed := costing.Summarize(withExtra[:1], 10, 0)
	if removed.FinalCOGS != before.FinalCOGS {
		t.Fatalf("removing the component must restore COGS: %d vs %d", removed.FinalCOGS, before.FinalCOGS)
	}
}
