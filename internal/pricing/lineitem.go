package pricing

import "github.com/noah-isme/backend-faktur/internal/common"

// LineItem is one invoice row. DiscountAmount and Total are derived and kept
// consistent by Apply and Recompute; callers never set them directly.
type LineItem struct {
	ProductID      string
	SizePriceID    string
	Quantity       int
	UnitPrice      Money
	DiscountMode   DiscountMode
	DiscountInput  string
	DiscountAmount Money
	Total          Money
}

// RawTotal returns quantity × unit price before any discount.
func (it LineItem) RawTotal() Money {
	return Money(it.Quantity) * it.UnitPrice
}

// Field identifies which line item field a change targets.
type Field string

const (
	FieldProduct       Field = "productId"
	FieldSize          Field = "sizePriceId"
	FieldQuantity      Field = "quantity"
	FieldPrice         Field = "price"
	FieldDiscountMode  Field = "discountMode"
	FieldDiscountInput Field = "discountInput"
)

// SizeTier carries the identity and unit price of a selected size/price tier.
// Price and size travel together: picking a tier always overwrites the
// item's unit price.
type SizeTier struct {
	ID    string
	Price Money
}

// Change describes a single field edit. Value holds the raw user input for
// quantity, price and discount edits; Size is populated for tier selection;
// Mode disambiguates which discount representation is being edited.
type Change struct {
	Field Field
	Value string
	Size  SizeTier
	Mode  DiscountMode
}

// Apply returns a copy of the item with the change applied and every derived
// field recomputed. The result is always internally consistent no matter
// which field changed, so callers need no knowledge of the dependency graph.
func Apply(item LineItem, ch Change) LineItem {
	switch ch.Field {
	case FieldProduct:
		item.ProductID = ch.Value
	case FieldSize:
		item.SizePriceID = ch.Size.ID
		item.UnitPrice = ch.Size.Price
	case FieldQuantity:
		qty := common.AtoiDefault(ch.Value, 1)
		if qty < 1 {
			qty = 1
		}
		item.Quantity = qty
	case FieldPrice:
		price := common.AtoiDefault(ch.Value, 0)
		if price < 0 {
			price = 0
		}
		item.UnitPrice = Money(price)
	case FieldDiscountMode:
		item.DiscountMode = ch.Mode
	case FieldDiscountInput:
		item.DiscountMode = ch.Mode
		item.DiscountInput = ch.Value
	}
	return Recompute(item)
}

// Recompute refreshes the derived discount amount and total from the item's
// current inputs.
func Recompute(item LineItem) LineItem {
	raw := item.RawTotal()
	item.DiscountAmount = ResolveAmount(raw, item.DiscountMode, item.DiscountInput)
	item.Total = raw - item.DiscountAmount
	return item
}

// ReplaceItem returns a copy of items with the element at idx swapped out.
// Out-of-range indexes leave the copy unchanged.
func ReplaceItem(items []LineItem, idx int, item LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	if idx >= 0 && idx < len(out) {
		out[idx] = item
	}
	return out
}
