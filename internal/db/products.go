package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listProducts = `
SELECT id, name, created_at, updated_at
FROM products
ORDER BY name
`

// ListProducts returns every product ordered by name.
func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const getProduct = `
SELECT id, name, created_at, updated_at
FROM products
WHERE id = $1
`

// GetProduct loads a single product by id.
func (q *Queries) GetProduct(ctx context.Context, id pgtype.UUID) (Product, error) {
	var p Product
	err := q.db.QueryRow(ctx, getProduct, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const createProduct = `
INSERT INTO products (name)
VALUES ($1)
RETURNING id, name, created_at, updated_at
`

// CreateProduct inserts a product and returns the stored row.
func (q *Queries) CreateProduct(ctx context.Context, name string) (Product, error) {
	var p Product
	err := q.db.QueryRow(ctx, createProduct, name).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const updateProduct = `
UPDATE products
SET name = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, created_at, updated_at
`

// UpdateProduct renames a product and returns the stored row.
func (q *Queries) UpdateProduct(ctx context.Context, id pgtype.UUID, name string) (Product, error) {
	var p Product
	err := q.db.QueryRow(ctx, updateProduct, id, name).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const deleteProduct = `
DELETE FROM products
WHERE id = $1
`

// DeleteProduct removes a product together with its size tiers (cascade).
func (q *Queries) DeleteProduct(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteProduct, id)
	return err
}

const listSizePricesByProduct = `
SELECT id, product_id, size, price, labor_percent
FROM size_prices
WHERE product_id = $1
ORDER BY price
`

// ListSizePricesByProduct returns the size tiers of one product.
func (q *Queries) ListSizePricesByProduct(ctx context.Context, productID pgtype.UUID) ([]SizePrice, error) {
	rows, err := q.db.Query(ctx, listSizePricesByProduct, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SizePrice
	for rows.Next() {
		var s SizePrice
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Size, &s.Price, &s.LaborPercent); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const getSizePrice = `
SELECT id, product_id, size, price, labor_percent
FROM size_prices
WHERE id = $1
`

// GetSizePrice loads a single size tier by id.
func (q *Queries) GetSizePrice(ctx context.Context, id pgtype.UUID) (SizePrice, error) {
	var s SizePrice
	err := q.db.QueryRow(ctx, getSizePrice, id).Scan(&s.ID, &s.ProductID, &s.Size, &s.Price, &s.LaborPercent)
	return s, err
}

const createSizePrice = `
INSERT INTO size_prices (product_id, size, price, labor_percent)
VALUES ($1, $2, $3, $4)
RETURNING id, product_id, size, price, labor_percent
`

// CreateSizePriceParams holds the inputs for CreateSizePrice.
type CreateSizePriceParams struct {
	ProductID    pgtype.UUID
	Size         string
	Price        int64
	LaborPercent float64
}

// CreateSizePrice inserts a size tier and returns the stored row.
func (q *Queries) CreateSizePrice(ctx context.Context, arg CreateSizePriceParams) (SizePrice, error) {
	var s SizePrice
	err := q.db.QueryRow(ctx, createSizePrice, arg.ProductID, arg.Size, arg.Price, arg.LaborPercent).
		Scan(&s.ID, &s.ProductID, &s.Size, &s.Price, &s.LaborPercent)
	return s, err
}

const updateSizePrice = `
UPDATE size_prices
SET size = $2, price = $3, labor_percent = $4
WHERE id = $1
RETURNING id, product_id, size, price, labor_percent
`

// UpdateSizePriceParams holds the inputs for UpdateSizePrice.
type UpdateSizePriceParams struct {
	ID           pgtype.UUID
	Size         string
	Price        int64
	LaborPercent float64
}

// UpdateSizePrice rewrites a size tier and returns the stored row.
func (q *Queries) UpdateSizePrice(ctx context.Context, arg UpdateSizePriceParams) (SizePrice, error) {
	var s SizePrice
	err := q.db.QueryRow(ctx, updateSizePrice, arg.ID, arg.Size, arg.Price, arg.LaborPercent).
		Scan(&s.ID, &s.ProductID, &s.Size, &s.Price, &s.LaborPercent)
	return s, err
}

const deleteSizePrice = `
DELETE FROM size_prices
WHERE id = $1
`

// DeleteSizePrice removes a size tier.
func (q *Queries) DeleteSizePrice(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteSizePrice, id)
	return err
}

const updateSizeLaborPercent = `
UPDATE size_prices
SET labor_percent = $2
WHERE id = $1
RETURNING id, product_id, size, price, labor_percent
`

// UpdateSizeLaborPercent stores a new labor surcharge percentage on the tier.
func (q *Queries) UpdateSizeLaborPercent(ctx context.Context, id pgtype.UUID, percent float64) (SizePrice, error) {
	var s SizePrice
	err := q.db.QueryRow(ctx, updateSizeLaborPercent, id, percent).
		Scan(&s.ID, &s.ProductID, &s.Size, &s.Price, &s.LaborPercent)
	return s, err
}
