package invoice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-faktur/internal/common"
	"github.com/noah-isme/backend-faktur/internal/db"
	"github.com/noah-isme/backend-faktur/internal/pricing"
)

// ErrNotFound indicates the requested invoice does not exist.
var ErrNotFound = errors.New("invoice not found")

// ErrDuplicateNumber indicates the invoice number is already taken.
var ErrDuplicateNumber = errors.New("invoice number already exists")

// Querier defines the read access required by preview and hydration.
type Querier interface {
	GetSizePrice(ctx context.Context, id pgtype.UUID) (db.SizePrice, error)
	GetInvoiceByNumber(ctx context.Context, number string) (db.Invoice, error)
	GetInvoice(ctx context.Context, id pgtype.UUID) (db.Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int32) ([]db.Invoice, error)
	CountInvoices(ctx context.Context) (int64, error)
	ListInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) ([]db.InvoiceItem, error)
}

// Service recomputes invoice drafts and persists finished invoices. Creation
// is a single transaction: the header and every line commit together or not
// at all, and no per-item retry is ever attempted.
type Service struct {
	Q    Querier
	DB   *db.Queries
	Pool *pgxpool.Pool
}

// ItemInput mirrors one editing row as submitted by the dashboard. Derived
// fields are never part of the input; the engine recomputes them.
type ItemInput struct {
	ProductID     string `json:"productId"`
	SizePriceID   string `json:"sizePriceId"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unitPrice"`
	DiscountMode  string `json:"discountMode"`
	DiscountInput string `json:"discountInput"`
}

// FieldChangeInput describes a single field edit to fold into the draft
// before recomputing, mirroring one UI event.
type FieldChangeInput struct {
	ItemIndex int    `json:"itemIndex"`
	Field     string `json:"field"`
	Value     string `json:"value"`
	Mode      string `json:"mode"`
}

// PreviewInput is the full editing state of a draft invoice.
type PreviewInput struct {
	Items                []ItemInput       `json:"items"`
	GeneralDiscountMode  string            `json:"generalDiscountMode"`
	GeneralDiscountInput string            `json:"generalDiscountInput"`
	ShippingPrice        int64             `json:"shippingPrice"`
	Change               *FieldChangeInput `json:"change,omitempty"`
}

// ItemOutput is one fully recomputed line.
type ItemOutput struct {
	ProductID       string `json:"productId"`
	SizePriceID     string `json:"sizePriceId"`
	Quantity        int    `json:"quantity"`
	UnitPrice       int64  `json:"unitPrice"`
	DiscountMode    string `json:"discountMode"`
	DiscountInput   string `json:"discountInput"`
	DiscountPercent string `json:"discountPercent"`
	DiscountAmount  int64  `json:"discountAmount"`
	Total           int64  `json:"total"`
}

// PreviewOutput carries the recomputed draft back to the editor.
type PreviewOutput struct {
	Items                  []ItemOutput `json:"items"`
	ItemsTotal             int64        `json:"itemsTotal"`
	DiscountAmount         int64        `json:"discountAmount"`
	GeneralDiscountPercent string       `json:"generalDiscountPercent"`
	Subtotal               int64        `json:"subtotal"`
	ShippingPrice          int64        `json:"shippingPrice"`
	TotalPrice             int64        `json:"totalPrice"`
}

// CreateInput is the submit payload for a finished invoice.
type CreateInput struct {
	Number               string      `json:"number" validate:"required"`
	CustomerName         string      `json:"customerName"`
	Items                []ItemInput `json:"items" validate:"min=1"`
	GeneralDiscountMode  string      `json:"generalDiscountMode"`
	GeneralDiscountInput string      `json:"generalDiscountInput"`
	ShippingPrice        int64       `json:"shippingPrice"`
}

// CreateOutput identifies the committed invoice.
type CreateOutput struct {
	InvoiceID  string `json:"invoiceId"`
	Number     string `json:"number"`
	TotalPrice int64  `json:"totalPrice"`
}

// Preview applies an optional field change to the draft and recomputes every
// derived figure. It never writes; the draft lives in the client.
func (s *Service) Preview(ctx context.Context, in PreviewInput) (PreviewOutput, error) {
	if s == nil || s.Q == nil {
		return PreviewOutput{}, errors.New("invoice service not configured")
	}
	items := buildItems(in.Items)
	if in.Change != nil {
		idx := in.Change.ItemIndex
		if idx < 0 || idx >= len(items) {
			return PreviewOutput{}, common.NewAppError("VALIDATION_ERROR", "change targets a missing item row", http.StatusBadRequest, nil)
		}
		ch, err := s.buildChange(ctx, *in.Change)
		if err != nil {
			return PreviewOutput{}, err
		}
		items = pricing.ReplaceItem(items, idx, pricing.Apply(items[idx], ch))
	}
	mode := pricing.ParseDiscountMode(in.GeneralDiscountMode)
	totals := pricing.Compute(items, mode, in.GeneralDiscountInput, in.ShippingPrice)
	out := PreviewOutput{
		Items:                  toItemOutputs(items),
		ItemsTotal:             totals.ItemsTotal,
		DiscountAmount:         totals.DiscountAmount,
		GeneralDiscountPercent: pricing.ResolvePercent(totals.ItemsTotal, mode, in.GeneralDiscountInput, totals.DiscountAmount),
		Subtotal:               totals.Subtotal,
		ShippingPrice:          totals.Shipping,
		TotalPrice:             totals.TotalPrice,
	}
	return out, nil
}

// Create validates the draft, recomputes totals server-side and commits the
// header plus all lines in one transaction. A duplicate invoice number is
// detected before the transaction and reported as ErrDuplicateNumber; a
// unique-violation raced past the pre-check maps to the same error.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateOutput, error) {
	if s == nil || s.Q == nil || s.DB == nil || s.Pool == nil {
		return CreateOutput{}, errors.New("invoice service not configured")
	}
	number := strings.TrimSpace(in.Number)
	itemParams, items, err := validateCreate(number, in.Items)
	if err != nil {
		return CreateOutput{}, err
	}
	mode := pricing.ParseDiscountMode(in.GeneralDiscountMode)
	totals := pricing.Compute(items, mode, in.GeneralDiscountInput, in.ShippingPrice)

	if _, err := s.Q.GetInvoiceByNumber(ctx, number); err == nil {
		return CreateOutput{}, ErrDuplicateNumber
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return CreateOutput{}, err
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return CreateOutput{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.DB.WithTx(tx)
	header, err := qtx.CreateInvoice(ctx, db.CreateInvoiceParams{
		Number:         number,
		CustomerName:   toNullableText(in.CustomerName),
		DiscountMode:   string(mode),
		DiscountInput:  in.GeneralDiscountInput,
		DiscountAmount: totals.DiscountAmount,
		ItemsTotal:     totals.ItemsTotal,
		Subtotal:       totals.Subtotal,
		ShippingPrice:  totals.Shipping,
		TotalPrice:     totals.TotalPrice,
	})
	if err != nil {
		return CreateOutput{}, mapCreateError(err)
	}
	for i, item := range items {
		params := itemParams[i]
		params.InvoiceID = header.ID
		params.Quantity = int32(item.Quantity)
		params.UnitPrice = item.UnitPrice
		params.DiscountMode = string(item.DiscountMode)
		params.DiscountInput = item.DiscountInput
		params.DiscountAmount = item.DiscountAmount
		params.Total = item.Total
		if err := qtx.CreateInvoiceItem(ctx, params); err != nil {
			return CreateOutput{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return CreateOutput{}, err
	}
	return CreateOutput{
		InvoiceID:  common.UUIDString(header.ID),
		Number:     header.Number,
		TotalPrice: header.TotalPrice,
	}, nil
}

// Detail is a persisted invoice hydrated for the edit screen.
type Detail struct {
	ID                     string       `json:"id"`
	Number                 string       `json:"number"`
	CustomerName           string       `json:"customerName,omitempty"`
	Items                  []ItemOutput `json:"items"`
	GeneralDiscountMode    string       `json:"generalDiscountMode"`
	GeneralDiscountInput   string       `json:"generalDiscountInput"`
	GeneralDiscountPercent string       `json:"generalDiscountPercent"`
	ItemsTotal             int64        `json:"itemsTotal"`
	DiscountAmount         int64        `json:"discountAmount"`
	Subtotal               int64        `json:"subtotal"`
	ShippingPrice          int64        `json:"shippingPrice"`
	TotalPrice             int64        `json:"totalPrice"`
}

// Get hydrates one invoice with its lines.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	if s == nil || s.Q == nil {
		return Detail{}, errors.New("invoice service not configured")
	}
	invID, err := common.ToUUID(id)
	if err != nil {
		return Detail{}, fmt.Errorf("parse invoice id: %w", ErrNotFound)
	}
	header, err := s.Q.GetInvoice(ctx, invID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	rows, err := s.Q.ListInvoiceItems(ctx, invID)
	if err != nil {
		return Detail{}, err
	}
	items := make([]ItemOutput, 0, len(rows))
	for _, row := range rows {
		mode := pricing.ParseDiscountMode(row.DiscountMode)
		raw := int64(row.Quantity) * row.UnitPrice
		items = append(items, ItemOutput{
			ProductID:       common.UUIDString(row.ProductID),
			SizePriceID:     common.UUIDString(row.SizePriceID),
			Quantity:        int(row.Quantity),
			UnitPrice:       row.UnitPrice,
			DiscountMode:    row.DiscountMode,
			DiscountInput:   row.DiscountInput,
			DiscountPercent: pricing.ResolvePercent(raw, mode, row.DiscountInput, row.DiscountAmount),
			DiscountAmount:  row.DiscountAmount,
			Total:           row.Total,
		})
	}
	mode := pricing.ParseDiscountMode(header.DiscountMode)
	return Detail{
		ID:                     common.UUIDString(header.ID),
		Number:                 header.Number,
		CustomerName:           header.CustomerName.String,
		Items:                  items,
		GeneralDiscountMode:    header.DiscountMode,
		GeneralDiscountInput:   header.DiscountInput,
		GeneralDiscountPercent: pricing.ResolvePercent(header.ItemsTotal, mode, header.DiscountInput, header.DiscountAmount),
		ItemsTotal:             header.ItemsTotal,
		DiscountAmount:         header.DiscountAmount,
		Subtotal:               header.Subtotal,
		ShippingPrice:          header.ShippingPrice,
		TotalPrice:             header.TotalPrice,
	}, nil
}

// Summary is one row of the invoice listing.
type Summary struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	CustomerName string `json:"customerName,omitempty"`
	TotalPrice   int64  `json:"totalPrice"`
	CreatedAt    string `json:"createdAt"`
}

// List returns invoice headers newest first.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Summary, int64, error) {
	if s == nil || s.Q == nil {
		return nil, 0, errors.New("invoice service not configured")
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	rows, err := s.Q.ListInvoices(ctx, int32(perPage), int32((page-1)*perPage))
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Q.CountInvoices(ctx)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		created := ""
		if row.CreatedAt.Valid {
			created = row.CreatedAt.Time.Format("2006-01-02T15:04:05Z07:00")
		}
		summaries = append(summaries, Summary{
			ID:           common.UUIDString(row.ID),
			Number:       row.Number,
			CustomerName: row.CustomerName.String,
			TotalPrice:   row.TotalPrice,
			CreatedAt:    created,
		})
	}
	return summaries, total, nil
}

func (s *Service) buildChange(ctx context.Context, in FieldChangeInput) (pricing.Change, error) {
	ch := pricing.Change{
		Field: pricing.Field(in.Field),
		Value: in.Value,
		Mode:  pricing.ParseDiscountMode(in.Mode),
	}
	switch ch.Field {
	case pricing.FieldProduct, pricing.FieldQuantity, pricing.FieldPrice,
		pricing.FieldDiscountMode, pricing.FieldDiscountInput:
		return ch, nil
	case pricing.FieldSize:
		sizeID, err := common.ToUUID(in.Value)
		if err != nil {
			return pricing.Change{}, common.NewAppError("VALIDATION_ERROR", "invalid size tier id", http.StatusBadRequest, err)
		}
		size, err := s.Q.GetSizePrice(ctx, sizeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return pricing.Change{}, common.NewAppError("VALIDATION_ERROR", "size tier not found", http.StatusBadRequest, err)
			}
			return pricing.Change{}, err
		}
		ch.Size = pricing.SizeTier{ID: in.Value, Price: size.Price}
		return ch, nil
	default:
		return pricing.Change{}, common.NewAppError("VALIDATION_ERROR", "unknown field "+in.Field, http.StatusBadRequest, nil)
	}
}

// buildItems converts submitted rows to engine items with derived fields
// refreshed; whatever the client claims for amounts is discarded.
func buildItems(inputs []ItemInput) []pricing.LineItem {
	items := make([]pricing.LineItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, pricing.Recompute(pricing.LineItem{
			ProductID:     in.ProductID,
			SizePriceID:   in.SizePriceID,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			DiscountMode:  pricing.ParseDiscountMode(in.DiscountMode),
			DiscountInput: in.DiscountInput,
		}))
	}
	return items
}

// validateCreate rejects incomplete drafts before anything is written. Every
// item needs a chosen product and size tier; their ids must parse.
func validateCreate(number string, inputs []ItemInput) ([]db.CreateInvoiceItemParams, []pricing.LineItem, error) {
	if number == "" {
		return nil, nil, common.NewAppError("VALIDATION_ERROR", "invoice number is required", http.StatusBadRequest, nil)
	}
	if len(inputs) == 0 {
		return nil, nil, common.NewAppError("VALIDATION_ERROR", "at least one item is required", http.StatusBadRequest, nil)
	}
	params := make([]db.CreateInvoiceItemParams, 0, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.ProductID) == "" {
			return nil, nil, common.NewAppError("VALIDATION_ERROR", fmt.Sprintf("item %d: product is required", i+1), http.StatusBadRequest, nil)
		}
		if strings.TrimSpace(in.SizePriceID) == "" {
			return nil, nil, common.NewAppError("VALIDATION_ERROR", fmt.Sprintf("item %d: size is required", i+1), http.StatusBadRequest, nil)
		}
		productID, err := common.ToUUID(in.ProductID)
		if err != nil {
			return nil, nil, common.NewAppError("VALIDATION_ERROR", fmt.Sprintf("item %d: invalid product id", i+1), http.StatusBadRequest, err)
		}
		sizeID, err := common.ToUUID(in.SizePriceID)
		if err != nil {
			return nil, nil, common.NewAppError("VALIDATION_ERROR", fmt.Sprintf("item %d: invalid size id", i+1), http.StatusBadRequest, err)
		}
		params = append(params, db.CreateInvoiceItemParams{ProductID: productID, SizePriceID: sizeID})
	}
	return params, buildItems(inputs), nil
}

func toItemOutputs(items []pricing.LineItem) []ItemOutput {
	out := make([]ItemOutput, 0, len(items))
	for _, it := range items {
		out = append(out, ItemOutput{
			ProductID:       it.ProductID,
			SizePriceID:     it.SizePriceID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountMode:    string(it.DiscountMode),
			DiscountInput:   it.DiscountInput,
			DiscountPercent: pricing.ResolvePercent(it.RawTotal(), it.DiscountMode, it.DiscountInput, it.DiscountAmount),
			DiscountAmount:  it.DiscountAmount,
			Total:           it.Total,
		})
	}
	return out
}

func mapCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateNumber
	}
	return err
}

func toNullableText(v string) pgtype.Text {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}
