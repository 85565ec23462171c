package pricing

// Totals aggregates the computed invoice-level components.
type Totals struct {
	ItemsTotal     Money
	DiscountAmount Money
	Subtotal       Money
	Shipping       Money
	TotalPrice     Money
}

// Compute folds all line items plus the general discount and shipping cost
// into invoice totals. The general discount is resolved against the items
// total only; shipping is added afterwards and is never discounted. A
// negative items total (from an oversized amount-mode line discount) is
// propagated, not corrected.
func Compute(items []LineItem, mode DiscountMode, input string, shipping Money) Totals {
	var itemsTotal Money
	for _, it := range items {
		itemsTotal += it.Total
	}
	if shipping < 0 {
		shipping = 0
	}
	discount := ResolveAmount(itemsTotal, mode, input)
	subtotal := itemsTotal - discount
	return Totals{
		ItemsTotal:     itemsTotal,
		DiscountAmount: discount,
		Subtotal:       subtotal,
		Shipping:       shipping,
		TotalPrice:     subtotal + shipping,
	}
}
