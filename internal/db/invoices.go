package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getInvoiceByNumber = `
SELECT id, number, customer_name, discount_mode, discount_input, discount_amount,
       items_total, subtotal, shipping_price, total_price, created_at
FROM invoices
WHERE number = $1
`

// GetInvoiceByNumber loads an invoice by its user-facing number. Used as the
// duplicate-number pre-check before creation.
func (q *Queries) GetInvoiceByNumber(ctx context.Context, number string) (Invoice, error) {
	var inv Invoice
	err := q.db.QueryRow(ctx, getInvoiceByNumber, number).Scan(
		&inv.ID, &inv.Number, &inv.CustomerName, &inv.DiscountMode, &inv.DiscountInput,
		&inv.DiscountAmount, &inv.ItemsTotal, &inv.Subtotal, &inv.ShippingPrice,
		&inv.TotalPrice, &inv.CreatedAt,
	)
	return inv, err
}

const getInvoice = `
SELECT id, number, customer_name, discount_mode, discount_input, discount_amount,
       items_total, subtotal, shipping_price, total_price, created_at
FROM invoices
WHERE id = $1
`

// GetInvoice loads a single invoice header by id.
func (q *Queries) GetInvoice(ctx context.Context, id pgtype.UUID) (Invoice, error) {
	var inv Invoice
	err := q.db.QueryRow(ctx, getInvoice, id).Scan(
		&inv.ID, &inv.Number, &inv.CustomerName, &inv.DiscountMode, &inv.DiscountInput,
		&inv.DiscountAmount, &inv.ItemsTotal, &inv.Subtotal, &inv.ShippingPrice,
		&inv.TotalPrice, &inv.CreatedAt,
	)
	return inv, err
}

const listInvoices = `
SELECT id, number, customer_name, discount_mode, discount_input, discount_amount,
       items_total, subtotal, shipping_price, total_price, created_at
FROM invoices
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`

// ListInvoices returns invoice headers newest first.
func (q *Queries) ListInvoices(ctx context.Context, limit, offset int32) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, listInvoices, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.CustomerName, &inv.DiscountMode, &inv.DiscountInput,
			&inv.DiscountAmount, &inv.ItemsTotal, &inv.Subtotal, &inv.ShippingPrice,
			&inv.TotalPrice, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	return items, rows.Err()
}

const countInvoices = `
SELECT count(*) FROM invoices
`

// CountInvoices returns the total number of stored invoices.
func (q *Queries) CountInvoices(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx, countInvoices).Scan(&total)
	return total, err
}

const createInvoice = `
INSERT INTO invoices (number, customer_name, discount_mode, discount_input, discount_amount,
                      items_total, subtotal, shipping_price, total_price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, number, customer_name, discount_mode, discount_input, discount_amount,
          items_total, subtotal, shipping_price, total_price, created_at
`

// CreateInvoiceParams holds the inputs for CreateInvoice.
type CreateInvoiceParams struct {
	Number         string
	CustomerName   pgtype.Text
	DiscountMode   string
	DiscountInput  string
	DiscountAmount int64
	ItemsTotal     int64
	Subtotal       int64
	ShippingPrice  int64
	TotalPrice     int64
}

// CreateInvoice inserts an invoice header and returns the stored row.
func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error) {
	var inv Invoice
	err := q.db.QueryRow(ctx, createInvoice,
		arg.Number, arg.CustomerName, arg.DiscountMode, arg.DiscountInput, arg.DiscountAmount,
		arg.ItemsTotal, arg.Subtotal, arg.ShippingPrice, arg.TotalPrice,
	).Scan(
		&inv.ID, &inv.Number, &inv.CustomerName, &inv.DiscountMode, &inv.DiscountInput,
		&inv.DiscountAmount, &inv.ItemsTotal, &inv.Subtotal, &inv.ShippingPrice,
		&inv.TotalPrice, &inv.CreatedAt,
	)
	return inv, err
}

const createInvoiceItem = `
INSERT INTO invoice_items (invoice_id, product_id, size_price_id, quantity, unit_price,
                           discount_mode, discount_input, discount_amount, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// CreateInvoiceItemParams holds the inputs for CreateInvoiceItem.
type CreateInvoiceItemParams struct {
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

// CreateInvoiceItem inserts one invoice line.
func (q *Queries) CreateInvoiceItem(ctx context.Context, arg CreateInvoiceItemParams) error {
	_, err := q.db.Exec(ctx, createInvoiceItem,
		arg.InvoiceID, arg.ProductID, arg.SizePriceID, arg.Quantity, arg.UnitPrice,
		arg.DiscountMode, arg.DiscountInput, arg.DiscountAmount, arg.Total,
	)
	return err
}

const listInvoiceItems = `
SELECT id, invoice_id, product_id, size_price_id, quantity, unit_price,
       discount_mode, discount_input, discount_amount, total
FROM invoice_items
WHERE invoice_id = $1
ORDER BY id
`

// ListInvoiceItems returns the lines of one invoice.
func (q *Queries) ListInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) ([]InvoiceItem, error) {
	rows, err := q.db.Query(ctx, listInvoiceItems, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InvoiceItem
	for rows.Next() {
		var it InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.SizePriceID, &it.Quantity, &it.UnitPrice,
			&it.DiscountMode, &it.DiscountInput, &it.DiscountAmount, &it.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
