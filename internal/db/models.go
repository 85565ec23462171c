package db

import "github.com/jackc/pgx/v5/pgtype"

// Product is a sellable product owning one or more size/price tiers.
type Product struct {
	ID        pgtype.UUID
	Name      string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

// SizePrice is one size/price tier of a product, optionally backed by a recipe.
type SizePrice struct {
	ID           pgtype.UUID
	ProductID    pgtype.UUID
	Size         string
	Price        int64
	LaborPercent float64
}

// Ingredient is a raw material priced per unit. The unit is informational
// only; recipe quantities are assumed to be expressed in the same unit.
type Ingredient struct {
	ID          pgtype.UUID
	Name        string
	Unit        string
	CostPerUnit int64
}

// RecipeComponent attaches an ingredient quantity to a size tier. At most one
// row exists per (size, ingredient) pair.
type RecipeComponent struct {
	ID             pgtype.UUID
	SizePriceID    pgtype.UUID
	IngredientID   pgtype.UUID
	QuantityNeeded float64
}

// Invoice is a persisted invoice header with its derived totals.
type Invoice struct {
	ID             pgtype.UUID
	Number         string
	CustomerName   pgtype.Text
	DiscountMode   string
	DiscountInput  string
	DiscountAmount int64
	ItemsTotal     int64
	Subtotal       int64
	ShippingPrice  int64
	TotalPrice     int64
	CreatedAt      pgtype.Timestamptz
}

// InvoiceItem is one persisted invoice line.
type InvoiceItem struct {
	ID             pgtype.UUID
	InvoiceID      pgtype.UUID
	ProductID      pgtype.UUID
	SizePriceID    pgtype.UUID
	Quantity       int32
	UnitPrice      int64
	DiscountMode   string
	DiscountInput  string
	DiscountAmount int64
	Total          int64
}
