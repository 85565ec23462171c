package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listIngredients = `
SELECT id, name, unit, cost_per_unit
FROM ingredients
ORDER BY name
`

// ListIngredients returns every ingredient ordered by name.
func (q *Queries) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, listIngredients)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.Unit, &i.CostPerUnit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getIngredient = `
SELECT id, name, unit, cost_per_unit
FROM ingredients
WHERE id = $1
`

// GetIngredient loads a single ingredient by id.
func (q *Queries) GetIngredient(ctx context.Context, id pgtype.UUID) (Ingredient, error) {
	var i Ingredient
	err := q.db.QueryRow(ctx, getIngredient, id).Scan(&i.ID, &i.Name, &i.Unit, &i.CostPerUnit)
	return i, err
}

const createIngredient = `
INSERT INTO ingredients (name, unit, cost_per_unit)
VALUES ($1, $2, $3)
RETURNING id, name, unit, cost_per_unit
`

// CreateIngredientParams holds the inputs for CreateIngredient.
type CreateIngredientParams struct {
	Name        string
	Unit        string
	CostPerUnit int64
}

// CreateIngredient inserts an ingredient and returns the stored row.
func (q *Queries) CreateIngredient(ctx context.Context, arg CreateIngredientParams) (Ingredient, error) {
	var i Ingredient
	err := q.db.QueryRow(ctx, createIngredient, arg.Name, arg.Unit, arg.CostPerUnit).
		Scan(&i.ID, &i.Name, &i.Unit, &i.CostPerUnit)
	return i, err
}

const updateIngredient = `
UPDATE ingredients
SET name = $2, unit = $3, cost_per_unit = $4
WHERE id = $1
RETURNING id, name, unit, cost_per_unit
`

// UpdateIngredientParams holds the inputs for UpdateIngredient.
type UpdateIngredientParams struct {
	ID          pgtype.UUID
	Name        string
	Unit        string
	CostPerUnit int64
}

// UpdateIngredient rewrites an ingredient and returns the stored row.
func (q *Queries) UpdateIngredient(ctx context.Context, arg UpdateIngredientParams) (Ingredient, error) {
	var i Ingredient
	err := q.db.QueryRow(ctx, updateIngredient, arg.ID, arg.Name, arg.Unit, arg.CostPerUnit).
		Scan(&i.ID, &i.Name, &i.Unit, &i.CostPerUnit)
	return i, err
}

const deleteIngredient = `
DELETE FROM ingredients
WHERE id = $1
`

// DeleteIngredient removes an ingredient.
func (q *Queries) DeleteIngredient(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteIngredient, id)
	return err
}
