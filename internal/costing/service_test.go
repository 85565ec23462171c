package costing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-faktur/internal/common"
	"github.com/noah-isme/backend-faktur/internal/costing"
	"github.com/noah-isme/backend-faktur/internal/db"
)

const (
	sizeID       = "8e2b47a6-4f91-4a3c-9a64-0d9d3c9f1a01"
	flourID      = "8e2b47a6-4f91-4a3c-9a64-0d9d3c9f1a02"
	sugarID      = "8e2b47a6-4f91-4a3c-9a64-0d9d3c9f1a03"
	componentID  = "8e2b47a6-4f91-4a3c-9a64-0d9d3c9f1a04"
	unknownUUID  = "8e2b47a6-4f91-4a3c-9a64-0d9d3c9f1aff"
	notEvenAUUID = "so-not-a-uuid"
)

func mustUUID(t *testing.T, value string) pgtype.UUID {
	t.Helper()
	id, err := common.ToUUID(value)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", value, err)
	}
	return id
}

// stubQuerier backs the costing service with in-memory recipe state.
type stubQuerier struct {
	size        db.SizePrice
	ingredients map[string]db.Ingredient
	components  []db.RecipeComponentRow

	created []db.CreateComponentParams
	updated map[string]float64
}

func newStubQuerier(t *testing.T) *stubQuerier {
	return &stubQuerier{
		size: db.SizePrice{ID: mustUUID(t, sizeID), Size: "regular", Price: 25000, LaborPercent: 20},
		ingredients: map[string]db.Ingredient{
			flourID: {ID: mustUUID(t, flourID), Name: "flour", Unit: "g", CostPerUnit: 20},
			sugarID: {ID: mustUUID(t, sugarID), Name: "sugar", Unit: "g", CostPerUnit: 15},
		},
		components: []db.RecipeComponentRow{
			{
				ID:             mustUUID(t, componentID),
				SizePriceID:    mustUUID(t, sizeID),
				IngredientID:   mustUUID(t, flourID),
				IngredientName: "flour",
				Unit:           "g",
				QuantityNeeded: 500,
				CostPerUnit:    20,
			},
		},
		updated: map[string]float64{},
	}
}

func (s *stubQuerier) GetSizePrice(_ context.Context, id pgtype.UUID) (db.SizePrice, error) {
	if common.UUIDEqual(id, s.size.ID) {
		return s.size, nil
	}
	return db.SizePrice{}, pgx.ErrNoRows
}

func (s *stubQuerier) GetIngredient(_ context.Context, id pgtype.UUID) (db.Ingredient, error) {
	for _, ing := range s.ingredients {
		if common.UUIDEqual(id, ing.ID) {
			return ing, nil
		}
	}
	return db.Ingredient{}, pgx.ErrNoRows
}

func (s *stubQuerier) ListComponentsBySize(_ context.Context, sizePriceID pgtype.UUID) ([]db.RecipeComponentRow, error) {
	out := make([]db.RecipeComponentRow, 0, len(s.components))
	for _, c := range s.components {
		if common.UUIDEqual(c.SizePriceID, sizePriceID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubQuerier) FindComponentBySizeIngredient(_ context.Context, sizePriceID, ingredientID pgtype.UUID) (db.RecipeComponent, error) {
	for _, c := range s.components {
		if common.UUIDEqual(c.SizePriceID, sizePriceID) && common.UUIDEqual(c.IngredientID, ingredientID) {
			return db.RecipeComponent{ID: c.ID, SizePriceID: c.SizePriceID, IngredientID: c.IngredientID, QuantityNeeded: c.QuantityNeeded}, nil
		}
	}
	return db.RecipeComponent{}, pgx.ErrNoRows
}

func (s *stubQuerier) CreateComponent(_ context.Context, arg db.CreateComponentParams) (db.RecipeComponent, error) {
	s.created = append(s.created, arg)
	ing, _ := s.GetIngredient(context.Background(), arg.IngredientID)
	row := db.RecipeComponentRow{
		ID:             arg.IngredientID,
		SizePriceID:    arg.SizePriceID,
		IngredientID:   arg.IngredientID,
		IngredientName: ing.Name,
		Unit:           ing.Unit,
		QuantityNeeded: arg.QuantityNeeded,
		CostPerUnit:    ing.CostPerUnit,
	}
	s.components = append(s.components, row)
	return db.RecipeComponent{ID: row.ID, SizePriceID: row.SizePriceID, IngredientID: row.IngredientID, QuantityNeeded: row.QuantityNeeded}, nil
}

func (s *stubQuerier) UpdateComponentQuantity(_ context.Context, id pgtype.UUID, quantity float64) (db.RecipeComponent, error) {
	for i, c := range s.components {
		if common.UUIDEqual(c.ID, id) {
			s.components[i].QuantityNeeded = quantity
			s.updated[common.UUIDString(id)] = quantity
			return db.RecipeComponent{ID: c.ID, SizePriceID: c.SizePriceID, IngredientID: c.IngredientID, QuantityNeeded: quantity}, nil
		}
	}
	return db.RecipeComponent{}, pgx.ErrNoRows
}

func (s *stubQuerier) DeleteComponent(_ context.Context, id, sizePriceID pgtype.UUID) error {
	for i, c := range s.components {
		if common.UUIDEqual(c.ID, id) && common.UUIDEqual(c.SizePriceID, sizePriceID) {
			s.components = append(s.components[:i], s.components[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubQuerier) UpdateSizeLaborPercent(_ context.Context, id pgtype.UUID, percent float64) (db.SizePrice, error) {
	if !common.UUIDEqual(id, s.size.ID) {
		return db.SizePrice{}, pgx.ErrNoRows
	}
	s.size.LaborPercent = percent
	return s.size, nil
}

func TestCostingSummary(t *testing.T) {
	q := newStubQuerier(t)
	svc := &costing.Service{Q: q}

	summary, err := svc.Costing(context.Background(), sizeID)
	if err != nil {
		t.Fatalf("costing: %v", err)
	}
	if summary.IngredientSubtotal != 10000 {
		t.Fatalf("expected subtotal 10000, got %d", summary.IngredientSubtotal)
	}
	if summary.LaborCost != 2000 {
		t.Fatalf("expected labor 2000, got %d", summary.LaborCost)
	}
	if summary.FinalCOGS != 12000 {
		t.Fatalf("expected COGS 12000, got %d", summary.FinalCOGS)
	}
}

func TestCostingUnknownSize(t *testing.T) {
	svc := &costing.Service{Q: newStubQuerier(t)}
	for _, id := range []string{unknownUUID, notEvenAUUID} {
		if _, err := svc.Costing(context.Background(), id); !errors.Is(err, costing.ErrNotFound) {
			t.Fatalf("id %q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestAddComponentCreatesNewRow(t *testing.T) {
	q := newStubQuerier(t)
	svc := &costing.Service{Q: q}

	summary, err := svc.AddComponent(context.Background(), sizeID, sugarID, 200)
	if err != nil {
		t.Fatalf("add component: %v", err)
	}
	if len(q.created) != 1 {
		t.Fatalf("expected one create, got %d", len(q.created))
	}
	if summary.IngredientSubtotal != 13000 {
		t.Fatalf("expected subtotal 13000, got %d", summary.IngredientSubtotal)
	}
}

func TestAddComponentDuplicateUpdatesInPlace(t *testing.T) {
	q := newStubQuerier(t)
	svc := &costing.Service{Q: q}

	summary, err := svc.AddComponent(context.Background(), sizeID, flourID, 250)
	if err != nil {
		t.Fatalf("add duplicate: %v", err)
	}
	if len(q.created) != 0 {
		t.Fatalf("duplicate must not create a new row, got %d creates", len(q.created))
	}
	if q.updated[componentID] != 250 {
		t.Fatalf("expected quantity update to 250, got %v", q.updated)
	}
	if len(summary.Components) != 1 {
		t.Fatalf("recipe must still have a single flour row, got %d", len(summary.Components))
	}
	if summary.IngredientSubtotal != 5000 {
		t.Fatalf("expected subtotal 5000 after update, got %d", summary.IngredientSubtotal)
	}
}

func TestAddComponentValidationRejectsBeforeWrite(t *testing.T) {
	q := newStubQuerier(t)
	svc := &costing.Service{Q: q}

	cases := []struct {
		name       string
		ingredient string
		quantity   float64
	}{
		{"empty ingredient", "", 10},
		{"zero quantity", flourID, 0},
		{"negative quantity", flourID, -3},
		{"unknown ingredient", unknownUUID, 10},
	}
	for _, tc := range cases {
		_, err := svc.AddComponent(context.Background(), sizeID, tc.ingredient, tc.quantity)
		if !common.IsAppError(err) {
			t.Fatalf("%s: expected AppError, got %v", tc.name, err)
		}
	}
	if len(q.created) != 0 || len(q.updated) != 0 {
		t.Fatalf("validation failures must not write: %d creates, %d updates", len(q.created), len(q.updated))
	}
}

func TestRemoveComponent(t *testing.T) {
	q := newStubQuerier(t)
	svc := &costing.Service{Q: q}

	summary, err := svc.RemoveComponent(context.Background(), sizeID, componentID)
	if err != nil {
		t.Fatalf("remove component: %v", err)
	}
	if len(summary.Components) != 0 {
		t.Fatalf("expected empty recipe, got %d components", len(summary.Components))
	}
	if summary.FinalCOGS != 0 {
		t.Fatalf("expected zero COGS, got %d", summary.FinalCOGS)
	}
}

func TestSetLaborPercent(t *testing.T) {
	q := newStubQuerier(t)
	svc := &costing.Service{Q: q}

	summary, err := svc.SetLaborPercent(context.Background(), sizeID, 35)
	if err != nil {
		t.Fatalf("set labor: %v", err)
	}
	if summary.LaborPercent != 35 {
		t.Fatalf("expected labor percent 35, got %v", summary.LaborPercent)
	}
	if summary.LaborCost != 3500 {
		t.Fatalf("expected labor cost 3500, got %d", summary.LaborCost)
	}

	if _, err := svc.SetLaborPercent(context.Background(), unknownUUID, 10); !errors.Is(err, costing.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown size, got %v", err)
	}
}
