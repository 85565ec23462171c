package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// RecipeComponentRow is a recipe component joined with its ingredient so the
// costing engine can price it without a second lookup.
type RecipeComponentRow struct {
	ID             pgtype.UUID
	SizePriceID    pgtype.UUID
	IngredientID   pgtype.UUID
	IngredientName string
	Unit           string
	QuantityNeeded float64
	CostPerUnit    int64
}

const listComponentsBySize = `
SELECT rc.id, rc.size_price_id, rc.ingredient_id, i.name, i.unit, rc.quantity_needed, i.cost_per_unit
FROM recipe_components rc
JOIN ingredients i ON i.id = rc.ingredient_id
WHERE rc.size_price_id = $1
ORDER BY i.name
`

// ListComponentsBySize returns the priced recipe of one size tier.
func (q *Queries) ListComponentsBySize(ctx context.Context, sizePriceID pgtype.UUID) ([]RecipeComponentRow, error) {
	rows, err := q.db.Query(ctx, listComponentsBySize, sizePriceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RecipeComponentRow
	for rows.Next() {
		var c RecipeComponentRow
		if err := rows.Scan(&c.ID, &c.SizePriceID, &c.IngredientID, &c.IngredientName, &c.Unit, &c.QuantityNeeded, &c.CostPerUnit); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const findComponentBySizeIngredient = `
SELECT id, size_price_id, ingredient_id, quantity_needed
FROM recipe_components
WHERE size_price_id = $1 AND ingredient_id = $2
`

// FindComponentBySizeIngredient locates the unique component for a
// (size, ingredient) pair.
func (q *Queries) FindComponentBySizeIngredient(ctx context.Context, sizePriceID, ingredientID pgtype.UUID) (RecipeComponent, error) {
	var c RecipeComponent
	err := q.db.QueryRow(ctx, findComponentBySizeIngredient, sizePriceID, ingredientID).
		Scan(&c.ID, &c.SizePriceID, &c.IngredientID, &c.QuantityNeeded)
	return c, err
}

const createComponent = `
INSERT INTO recipe_components (size_price_id, ingredient_id, quantity_needed)
VALUES ($1, $2, $3)
RETURNING id, size_price_id, ingredient_id, quantity_needed
`

// CreateComponentParams holds the inputs for CreateComponent.
type CreateComponentParams struct {
	SizePriceID    pgtype.UUID
	IngredientID   pgtype.UUID
	QuantityNeeded float64
}

// CreateComponent inserts a recipe component and returns the stored row.
func (q *Queries) CreateComponent(ctx context.Context, arg CreateComponentParams) (RecipeComponent, error) {
	var c RecipeComponent
	err := q.db.QueryRow(ctx, createComponent, arg.SizePriceID, arg.IngredientID, arg.QuantityNeeded).
		Scan(&c.ID, &c.SizePriceID, &c.IngredientID, &c.QuantityNeeded)
	return c, err
}

const updateComponentQuantity = `
UPDATE recipe_components
SET quantity_needed = $2
WHERE id = $1
RETURNING id, size_price_id, ingredient_id, quantity_needed
`

// UpdateComponentQuantity replaces the quantity of an existing component.
func (q *Queries) UpdateComponentQuantity(ctx context.Context, id pgtype.UUID, quantity float64) (RecipeComponent, error) {
	var c RecipeComponent
	err := q.db.QueryRow(ctx, updateComponentQuantity, id, quantity).
		Scan(&c.ID, &c.SizePriceID, &c.IngredientID, &c.QuantityNeeded)
	return c, err
}

const deleteComponent = `
DELETE FROM recipe_components
WHERE id = $1 AND size_price_id = $2
`

// DeleteComponent removes a component from a size tier's recipe.
func (q *Queries) DeleteComponent(ctx context.Context, id, sizePriceID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteComponent, id, sizePriceID)
	return err
}
