package costing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-faktur/internal/common"
	"github.com/noah-isme/backend-faktur/internal/db"
)

// ErrNotFound indicates the requested size tier or component does not exist.
var ErrNotFound = errors.New("costing target not found")

// Querier defines the database access required for recipe costing.
type Querier interface {
	GetSizePrice(ctx context.Context, id pgtype.UUID) (db.SizePrice, error)
	GetIngredient(ctx context.Context, id pgtype.UUID) (db.Ingredient, error)
	ListComponentsBySize(ctx context.Context, sizePriceID pgtype.UUID) ([]db.RecipeComponentRow, error)
	FindComponentBySizeIngredient(ctx context.Context, sizePriceID, ingredientID pgtype.UUID) (db.RecipeComponent, error)
	CreateComponent(ctx context.Context, arg db.CreateComponentParams) (db.RecipeComponent, error)
	UpdateComponentQuantity(ctx context.Context, id pgtype.UUID, quantity float64) (db.RecipeComponent, error)
	DeleteComponent(ctx context.Context, id, sizePriceID pgtype.UUID) error
	UpdateSizeLaborPercent(ctx context.Context, id pgtype.UUID, percent float64) (db.SizePrice, error)
}

// Service mutates recipes and returns the recomputed cost summary after
// every change. All writes are validated up front; nothing is written when a
// validation error fires.
type Service struct {
	Q Querier
}

// Costing returns the current cost breakdown of a size tier.
func (s *Service) Costing(ctx context.Context, sizePriceID string) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, errors.New("costing service not configured")
	}
	size, err := s.loadSize(ctx, sizePriceID)
	if err != nil {
		return Summary{}, err
	}
	return s.summarize(ctx, size)
}

// AddComponent attaches an ingredient quantity to a size tier. Adding an
// ingredient already present in the recipe updates the existing row in place
// so the (size, ingredient) pair stays unique.
func (s *Service) AddComponent(ctx context.Context, sizePriceID, ingredientID string, quantity float64) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, errors.New("costing service not configured")
	}
	if strings.TrimSpace(ingredientID) == "" {
		return Summary{}, common.NewAppError("VALIDATION_ERROR", "ingredient is required", http.StatusBadRequest, nil)
	}
	if quantity <= 0 {
		return Summary{}, common.NewAppError("VALIDATION_ERROR", "quantity must be positive", http.StatusBadRequest, nil)
	}
	size, err := s.loadSize(ctx, sizePriceID)
	if err != nil {
		return Summary{}, err
	}
	ingID, err := common.ToUUID(ingredientID)
	if err != nil {
		return Summary{}, common.NewAppError("VALIDATION_ERROR", "invalid ingredient id", http.StatusBadRequest, err)
	}
	if _, err := s.Q.GetIngredient(ctx, ingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Summary{}, common.NewAppError("VALIDATION_ERROR", "ingredient not found", http.StatusBadRequest, err)
		}
		return Summary{}, err
	}
	existing, err := s.Q.FindComponentBySizeIngredient(ctx, size.ID, ingID)
	switch {
	case err == nil:
		if _, err := s.Q.UpdateComponentQuantity(ctx, existing.ID, quantity); err != nil {
			return Summary{}, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := s.Q.CreateComponent(ctx, db.CreateComponentParams{
			SizePriceID:    size.ID,
			IngredientID:   ingID,
			QuantityNeeded: quantity,
		}); err != nil {
			return Summary{}, err
		}
	default:
		return Summary{}, err
	}
	return s.summarize(ctx, size)
}

// RemoveComponent detaches a component from the size tier's recipe.
func (s *Service) RemoveComponent(ctx context.Context, sizePriceID, componentID string) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, errors.New("costing service not configured")
	}
	size, err := s.loadSize(ctx, sizePriceID)
	if err != nil {
		return Summary{}, err
	}
	cID, err := common.ToUUID(componentID)
	if err != nil {
		return Summary{}, fmt.Errorf("parse component id: %w", ErrNotFound)
	}
	if err := s.Q.DeleteComponent(ctx, cID, size.ID); err != nil {
		return Summary{}, err
	}
	return s.summarize(ctx, size)
}

// SetLaborPercent stores a new labor surcharge on the size tier and returns
// the recomputed summary. The percentage is stored as given; values outside
// 0–100 are not rejected.
func (s *Service) SetLaborPercent(ctx context.Context, sizePriceID string, percent float64) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, errors.New("costing service not configured")
	}
	id, err := common.ToUUID(sizePriceID)
	if err != nil {
		return Summary{}, fmt.Errorf("parse size id: %w", ErrNotFound)
	}
	size, err := s.Q.UpdateSizeLaborPercent(ctx, id, percent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Summary{}, ErrNotFound
		}
		return Summary{}, err
	}
	return s.summarize(ctx, size)
}

func (s *Service) loadSize(ctx context.Context, sizePriceID string) (db.SizePrice, error) {
	id, err := common.ToUUID(sizePriceID)
	if err != nil {
		return db.SizePrice{}, fmt.Errorf("parse size id: %w", ErrNotFound)
	}
	size, err := s.Q.GetSizePrice(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.SizePrice{}, ErrNotFound
		}
		return db.SizePrice{}, err
	}
	return size, nil
}

func (s *Service) summarize(ctx context.Context, size db.SizePrice) (Summary, error) {
	rows, err := s.Q.ListComponentsBySize(ctx, size.ID)
	if err != nil {
		return Summary{}, err
	}
	components := make([]Component, 0, len(rows))
	for _, row := range rows {
		components = append(components, Component{
			ID:             common.UUIDString(row.ID),
			IngredientID:   common.UUIDString(row.IngredientID),
			IngredientName: row.IngredientName,
			Unit:           row.Unit,
			QuantityNeeded: row.QuantityNeeded,
			UnitCost:       row.CostPerUnit,
		})
	}
	return Summarize(components, size.LaborPercent, size.Price), nil
}
