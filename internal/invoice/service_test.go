package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-faktur/internal/common"
	"github.com/noah-isme/backend-faktur/internal/db"
	"github.com/noah-isme/backend-faktur/internal/invoice"
)

const (
	productID = "c21b47a6-4f91-4a3c-9a64-0d9d3c9f1b01"
	sizeID    = "c21b47a6-4f91-4a3c-9a64-0d9d3c9f1b02"
	sizeID2   = "c21b47a6-4f91-4a3c-9a64-0d9d3c9f1b03"
	invoiceID = "c21b47a6-4f91-4a3c-9a64-0d9d3c9f1b04"
)

func mustUUID(t *testing.T, value string) pgtype.UUID {
	t.Helper()
	id, err := common.ToUUID(value)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", value, err)
	}
	return id
}

// stubQuerier serves previews and hydration from fixed fixtures.
type stubQuerier struct {
	sizes    map[string]db.SizePrice
	invoices map[string]db.Invoice
	items    []db.InvoiceItem
}

func newStubQuerier(t *testing.T) *stubQuerier {
	return &stubQuerier{
		sizes: map[string]db.SizePrice{
			sizeID:  {ID: mustUUID(t, sizeID), Size: "regular", Price: 10000},
			sizeID2: {ID: mustUUID(t, sizeID2), Size: "large", Price: 12500},
		},
		invoices: map[string]db.Invoice{},
	}
}

func (s *stubQuerier) GetSizePrice(_ context.Context, id pgtype.UUID) (db.SizePrice, error) {
	for _, size := range s.sizes {
		if common.UUIDEqual(size.ID, id) {
			return size, nil
		}
	}
	return db.SizePrice{}, pgx.ErrNoRows
}

func (s *stubQuerier) GetInvoiceByNumber(_ context.Context, number string) (db.Invoice, error) {
	for _, inv := range s.invoices {
		if inv.Number == number {
			return inv, nil
		}
	}
	return db.Invoice{}, pgx.ErrNoRows
}

func (s *stubQuerier) GetInvoice(_ context.Context, id pgtype.UUID) (db.Invoice, error) {
	for _, inv := range s.invoices {
		if common.UUIDEqual(inv.ID, id) {
			return inv, nil
		}
	}
	return db.Invoice{}, pgx.ErrNoRows
}

func (s *stubQuerier) ListInvoices(_ context.Context, limit, offset int32) ([]db.Invoice, error) {
	out := make([]db.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, inv)
	}
	if int(offset) >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubQuerier) CountInvoices(_ context.Context) (int64, error) {
	return int64(len(s.invoices)), nil
}

func (s *stubQuerier) ListInvoiceItems(_ context.Context, invoiceID pgtype.UUID) ([]db.InvoiceItem, error) {
	out := make([]db.InvoiceItem, 0, len(s.items))
	for _, item := range s.items {
		if common.UUIDEqual(item.InvoiceID, invoiceID) {
			out = append(out, item)
		}
	}
	return out, nil
}

func previewService(t *testing.T) (*invoice.Service, *stubQuerier) {
	q := newStubQuerier(t)
	return &invoice.Service{Q: q, DB: db.New(nil), Pool: new(pgxpool.Pool)}, q
}

func draftItem() invoice.ItemInput {
	return invoice.ItemInput{
		ProductID:    productID,
		SizePriceID:  sizeID,
		Quantity:     2,
		UnitPrice:    10000,
		DiscountMode: "amount",
	}
}

func TestPreviewRecomputesTotals(t *testing.T) {
	svc, _ := previewService(t)
	out, err := svc.Preview(context.Background(), invoice.PreviewInput{
		Items:                []invoice.ItemInput{draftItem()},
		GeneralDiscountMode:  "percent",
		GeneralDiscountInput: "10",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if out.ItemsTotal != 20000 {
		t.Fatalf("expected items total 20000, got %d", out.ItemsTotal)
	}
	if out.DiscountAmount != 2000 {
		t.Fatalf("expected discount 2000, got %d", out.DiscountAmount)
	}
	if out.TotalPrice != 18000 {
		t.Fatalf("expected total 18000, got %d", out.TotalPrice)
	}
	if out.GeneralDiscountPercent != "10" {
		t.Fatalf("percent input should be echoed, got %q", out.GeneralDiscountPercent)
	}
}

func TestPreviewIgnoresClientDerivedFields(t *testing.T) {
	svc, _ := previewService(t)
	item := draftItem()
	item.DiscountInput = "10"
	item.DiscountMode = "percent"
	out, err := svc.Preview(context.Background(), invoice.PreviewInput{Items: []invoice.ItemInput{item}})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if out.Items[0].DiscountAmount != 2000 || out.Items[0].Total != 18000 {
		t.Fatalf("derived fields must be recomputed server-side, got %+v", out.Items[0])
	}
}

func TestPreviewAppliesQuantityChange(t *testing.T) {
	svc, _ := previewService(t)
	out, err := svc.Preview(context.Background(), invoice.PreviewInput{
		Items:  []invoice.ItemInput{draftItem()},
		Change: &invoice.FieldChangeInput{ItemIndex: 0, Field: "quantity", Value: "oops"},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if out.Items[0].Quantity != 1 {
		t.Fatalf("invalid quantity should fall back to 1, got %d", out.Items[0].Quantity)
	}
	if out.TotalPrice != 10000 {
		t.Fatalf("expected total 10000, got %d", out.TotalPrice)
	}
}

func TestPreviewSizeChangeLooksUpPrice(t *testing.T) {
	svc, _ := previewService(t)
	out, err := svc.Preview(context.Background(), invoice.PreviewInput{
		Items:  []invoice.ItemInput{draftItem()},
		Change: &invoice.FieldChangeInput{ItemIndex: 0, Field: "sizePriceId", Value: sizeID2},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if out.Items[0].SizePriceID != sizeID2 {
		t.Fatalf("expected size %s, got %s", sizeID2, out.Items[0].SizePriceID)
	}
	if out.Items[0].UnitPrice != 12500 {
		t.Fatalf("size change must pull the tier price, got %d", out.Items[0].UnitPrice)
	}
	if out.TotalPrice != 25000 {
		t.Fatalf("expected total 25000, got %d", out.TotalPrice)
	}
}

func TestPreviewChangeValidation(t *testing.T) {
	svc, _ := previewService(t)
	cases := []struct {
		name   string
		change invoice.FieldChangeInput
	}{
		{"index out of range", invoice.FieldChangeInput{ItemIndex: 5, Field: "quantity", Value: "2"}},
		{"negative index", invoice.FieldChangeInput{ItemIndex: -1, Field: "quantity", Value: "2"}},
		{"unknown field", invoice.FieldChangeInput{ItemIndex: 0, Field: "colour", Value: "red"}},
		{"unknown size tier", invoice.FieldChangeInput{ItemIndex: 0, Field: "sizePriceId", Value: invoiceID}},
		{"malformed size id", invoice.FieldChangeInput{ItemIndex: 0, Field: "sizePriceId", Value: "nope"}},
	}
	for _, tc := range cases {
		change := tc.change
		_, err := svc.Preview(context.Background(), invoice.PreviewInput{
			Items:  []invoice.ItemInput{draftItem()},
			Change: &change,
		})
		if !common.IsAppError(err) {
			t.Fatalf("%s: expected AppError, got %v", tc.name, err)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := previewService(t)
	cases := []struct {
		name string
		in   invoice.CreateInput
	}{
		{"missing number", invoice.CreateInput{Items: []invoice.ItemInput{draftItem()}}},
		{"no items", invoice.CreateInput{Number: "INV-1"}},
		{"item without product", invoice.CreateInput{Number: "INV-1", Items: []invoice.ItemInput{{SizePriceID: sizeID, Quantity: 1}}}},
		{"item without size", invoice.CreateInput{Number: "INV-1", Items: []invoice.ItemInput{{ProductID: productID, Quantity: 1}}}},
		{"malformed product id", invoice.CreateInput{Number: "INV-1", Items: []invoice.ItemInput{{ProductID: "zzz", SizePriceID: sizeID}}}},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.in)
		if !common.IsAppError(err) {
			t.Fatalf("%s: expected AppError, got %v", tc.name, err)
		}
	}
}

func TestCreateDuplicateNumberPreCheck(t *testing.T) {
	svc, q := previewService(t)
	q.invoices[invoiceID] = db.Invoice{ID: mustUUID(t, invoiceID), Number: "INV-7"}

	_, err := svc.Create(context.Background(), invoice.CreateInput{
		Number: "INV-7",
		Items:  []invoice.ItemInput{draftItem()},
	})
	if !errors.Is(err, invoice.ErrDuplicateNumber) {
		t.Fatalf("expected ErrDuplicateNumber, got %v", err)
	}
}

func TestGetHydratesItems(t *testing.T) {
	svc, q := previewService(t)
	q.invoices[invoiceID] = db.Invoice{
		ID:             mustUUID(t, invoiceID),
		Number:         "INV-9",
		CustomerName:   pgtype.Text{String: "Budi", Valid: true},
		DiscountMode:   "percent",
		DiscountInput:  "5",
		DiscountAmount: 1550,
		ItemsTotal:     31000,
		Subtotal:       29450,
		ShippingPrice:  5000,
		TotalPrice:     34450,
	}
	q.items = []db.InvoiceItem{{
		ID:           mustUUID(t, sizeID),
		InvoiceID:    mustUUID(t, invoiceID),
		ProductID:    mustUUID(t, productID),
		SizePriceID:  mustUUID(t, sizeID),
		Quantity:     2,
		UnitPrice:    10000,
		DiscountMode: "amount",
		Total:        20000,
	}}

	detail, err := svc.Get(context.Background(), invoiceID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Number != "INV-9" || detail.CustomerName != "Budi" {
		t.Fatalf("unexpected header %+v", detail)
	}
	if len(detail.Items) != 1 || detail.Items[0].Total != 20000 {
		t.Fatalf("unexpected items %+v", detail.Items)
	}
	if detail.GeneralDiscountPercent != "5" {
		t.Fatalf("percent mode input should echo, got %q", detail.GeneralDiscountPercent)
	}
	if detail.TotalPrice != 34450 {
		t.Fatalf("expected total 34450, got %d", detail.TotalPrice)
	}
}

func TestGetUnknownInvoice(t *testing.T) {
	svc, _ := previewService(t)
	for _, id := range []string{invoiceID, "garbage"} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, invoice.ErrNotFound) {
			t.Fatalf("id %q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestListInvoices(t *testing.T) {
	svc, q := previewService(t)
	q.invoices[invoiceID] = db.Invoice{
		ID:         mustUUID(t, invoiceID),
		Number:     "INV-3",
		TotalPrice: 18000,
		CreatedAt:  pgtype.Timestamptz{Time: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), Valid: true},
	}

	summaries, total, err := svc.List(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(summaries) != 1 {
		t.Fatalf("expected one invoice, got total=%d len=%d", total, len(summaries))
	}
	if summaries[0].Number != "INV-3" || summaries[0].TotalPrice != 18000 {
		t.Fatalf("unexpected summary %+v", summaries[0])
	}
	if summaries[0].CreatedAt == "" {
		t.Fatalf("expected formatted created timestamp")
	}
}
