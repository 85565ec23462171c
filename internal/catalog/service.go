package catalog

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

// ErrNotFound indicates the requested catalog record does not exist.
var ErrNotFound = errors.New("catalog record not found")

const (
	cacheKeyIngredients = "catalog:ingredients"
	cacheKeyProducts    = "catalog:products"
)

// Querier defines the database access required for catalog operations.
type Querier interface {
	ListIngredients(ctx context.Context) ([]db.Ingredient, error)
	GetIngredient(ctx context.Context, id pgtype.UUID) (db.Ingredient, error)
	CreateIngredient(ctx context.Context, arg db.CreateIngredientParams) (db.Ingredient, error)
	UpdateIngredient(ctx context.Context, arg db.UpdateIngredientParams) (db.Ingredient, error)
	DeleteIngredient(ctx context.Context, id pgtype.UUID) error
	ListProducts(ctx context.Context) ([]db.Product, error)
	GetProduct(ctx context.Context, id pgtype.UUID) (db.Product, error)
	CreateProduct(ctx context.Context, name string) (db.Product, error)
	UpdateProduct(ctx context.Context, id pgtype.UUID, name string) (db.Product, error)
	DeleteProduct(ctx context.Context, id pgtype.UUID) error
	ListSizePricesByProduct(ctx context.Context, productID pgtype.UUID) ([]db.SizePrice, error)
	GetSizePrice(ctx context.Context, id pgtype.UUID) (db.SizePrice, error)
	CreateSizePrice(ctx context.Context, arg db.CreateSizePriceParams) (db.SizePrice, error)
	UpdateSizePrice(ctx context.Context, arg db.UpdateSizePriceParams) (db.SizePrice, error)
	DeleteSizePrice(ctx context.Context, id pgtype.UUID) error
}

// Service exposes the product, size tier and ingredient records the pricing
// and costing engines consume. List reads go through a redis JSON cache that
// every write invalidates.
type Service struct {
	Q     Querier
	Cache *Cache
}

// Ingredient is the API shape of a raw material.
type Ingredient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	CostPerUnit int64  `json:"costPerUnit"`
}

// IngredientInput carries ingredient create/update payloads.
type IngredientInput struct {
	Name        string `json:"name" validate:"required"`
	Unit        string `json:"unit" validate:"required"`
	CostPerUnit int64  `json:"costPerUnit" validate:"gte=0"`
}

// SizePrice is the API shape of one size/price tier.
type SizePrice struct {
	ID           string  `json:"id"`
	Size         string  `json:"size"`
	Price        int64   `json:"price"`
	LaborPercent float64 `json:"laborPercent"`
}

// SizeInput carries size tier create/update payloads.
type SizeInput struct {
	Size         string  `json:"size" validate:"required"`
	Price        int64   `json:"price" validate:"gte=0"`
	LaborPercent float64 `json:"laborPercent"`
}

// Product is the API shape of a product with its tiers.
type Product struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Sizes []SizePrice `json:"sizes"`
}

// Ingredients lists every ingredient, served from cache when warm.
func (s *Service) Ingredients(ctx context.Context) ([]Ingredient, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("catalog service not configured")
	}
	var cached []Ingredient
	if ok, err := s.Cache.GetJSON(ctx, cacheKeyIngredients, &cached); err == nil && ok {
		return cached, nil
	}
	rows, err := s.Q.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Ingredient, 0, len(rows))
	for _, row := range rows {
		items = append(items, toIngredient(row))
	}
	_ = s.Cache.SetJSON(ctx, cacheKeyIngredients, items)
	return items, nil
}

// CreateIngredient validates and stores a new ingredient.
func (s *Service) CreateIngredient(ctx context.Context, in IngredientInput) (Ingredient, error) {
	if err := validateIngredient(in); err != nil {
		return Ingredient{}, err
	}
	row, err := s.Q.CreateIngredient(ctx, db.CreateIngredientParams{
		Name:        strings.TrimSpace(in.Name),
		Unit:        strings.TrimSpace(in.Unit),
		CostPerUnit: in.CostPerUnit,
	})
	if err != nil {
		return Ingredient{}, err
	}
	s.Cache.Invalidate(ctx, cacheKeyIngredients)
	return toIngredient(row), nil
}

// UpdateIngredient rewrites an existing ingredient.
func (s *Service) UpdateIngredient(ctx context.Context, id string, in IngredientInput) (Ingredient, error) {
	if err := validateIngredient(in); err != nil {
		return Ingredient{}, err
	}
	uid, err := common.ToUUID(id)
	if err != nil {
		return Ingredient{}, fmt.Errorf("parse ingredient id: %w", ErrNotFound)
	}
	row, err := s.Q.UpdateIngredient(ctx, db.UpdateIngredientParams{
		ID:          uid,
		Name:        strings.TrimSpace(in.Name),
		Unit:        strings.TrimSpace(in.Unit),
		CostPerUnit: in.CostPerUnit,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ingredient{}, ErrNotFound
		}
		return Ingredient{}, err
	}
	s.Cache.Invalidate(ctx, cacheKeyIngredients)
	return toIngredient(row), nil
}

// DeleteIngredient removes an ingredient.
func (s *Service) DeleteIngredient(ctx context.Context, id string) error {
	uid, err := common.ToUUID(id)
	if err != nil {
		return fmt.Errorf("parse ingredient id: %w", ErrNotFound)
	}
	if err := s.Q.DeleteIngredient(ctx, uid); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, cacheKeyIngredients)
	return nil
}

// Products lists every product with its size tiers, served from cache when warm.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("catalog service not configured")
	}
	var cached []Product
	if ok, err := s.Cache.GetJSON(ctx, cacheKeyProducts, &cached); err == nil && ok {
		return cached, nil
	}
	rows, err := s.Q.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		sizes, err := s.Q.ListSizePricesByProduct(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		products = append(products, toProduct(row, sizes))
	}
	_ = s.Cache.SetJSON(ctx, cacheKeyProducts, products)
	return products, nil
}

// CreateProduct stores a new product without tiers; sizes are added per row.
func (s *Service) CreateProduct(ctx context.Context, name string) (Product, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Product{}, common.NewAppError("VALIDATION_ERROR", "product name is required", http.StatusBadRequest, nil)
	}
	row, err := s.Q.CreateProduct(ctx, trimmed)
	if err != nil {
		return Product{}, err
	}
	s.Cache.Invalidate(ctx, cacheKeyProducts)
	return toProduct(row, nil), nil
}

// UpdateProduct renames a product.
func (s *Service) UpdateProduct(ctx context.Context, id, name string) (Product, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Product{}, common.NewAppError("VALIDATION_ERROR", "product name is required", http.StatusBadRequest, nil)
	}
	uid, err := common.ToUUID(id)
	if err != nil {
		return Product{}, fmt.Errorf("parse product id: %w", ErrNotFound)
	}
	row, err := s.Q.UpdateProduct(ctx, uid, trimmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	sizes, err := s.Q.ListSizePricesByProduct(ctx, row.ID)
	if err != nil {
		return Product{}, err
	}
	s.Cache.Invalidate(ctx, cacheKeyProducts)
	return toProduct(row, sizes), nil
}

// DeleteProduct removes a product and, via the schema cascade, its tiers.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	uid, err := common.ToUUID(id)
	if err != nil {
		return fmt.Errorf("parse product id: %w", ErrNotFound)
	}
	if err := s.Q.DeleteProduct(ctx, uid); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, cacheKeyProducts)
	return nil
}

// AddSize attaches a new size/price tier to a product.
func (s *Service) AddSize(ctx context.Context, productID string, in SizeInput) (SizePrice, error) {
	if err := validateSize(in); err != nil {
		return SizePrice{}, err
	}
	pid, err := common.ToUUID(productID)
	if err != nil {
		return SizePrice{}, fmt.Errorf("parse product id: %w", ErrNotFound)
	}
	if _, err := s.Q.GetProduct(ctx, pid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SizePrice{}, ErrNotFound
		}
		return SizePrice{}, err
	}
	row, err := s.Q.CreateSizePrice(ctx, db.CreateSizePriceParams{
		ProductID:    pid,
		Size:         strings.TrimSpace(in.Size),
		Price:        in.Price,
		LaborPercent: in.LaborPercent,
	})
	if err != nil {
		return SizePrice{}, err
	}
	s.Cache.Invalidate(ctx, cacheKeyProducts)
	return toSizePrice(row), nil
}

// UpdateSize rewrites one size/price tier.
func (s *Service) UpdateSize(ctx context.Context, sizeID string, in SizeInput) (SizePrice, error) {
	if err := validateSize(in); err != nil {
		return SizePrice{}, err
	}
	sid, err := common.ToUUID(sizeID)
	if err != nil {
		return SizePrice{}, fmt.Errorf("parse size id: %w", ErrNotFound)
	}
	row, err := s.Q.UpdateSizePrice(ctx, db.UpdateSizePriceParams{
		ID:           sid,
		Size:         strings.TrimSpace(in.Size),
		Price:        in.Price,
		LaborPercent: in.LaborPercent,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SizePrice{}, ErrNotFound
		}
		return SizePrice{}, err
	}
	s.Cache.Invalidate(ctx, cacheKeyProducts)
	return toSizePrice(row), nil
}

// DeleteSize removes one size/price tier.
func (s *Service) DeleteSize(ctx context.Context, sizeID string) error {
	sid, err := common.ToUUID(sizeID)
	if err != nil {
		return fmt.Errorf("parse size id: %w", ErrNotFound)
	}
	if err := s.Q.DeleteSizePrice(ctx, sid); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx, cacheKeyProducts)
	return nil
}

func validateIngredient(in IngredientInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return common.NewAppError("VALIDATION_ERROR", "ingredient name is required", http.StatusBadRequest, nil)
	}
	if strings.TrimSpace(in.Unit) == "" {
		return common.NewAppError("VALIDATION_ERROR", "ingredient unit is required", http.StatusBadRequest, nil)
	}
	if in.CostPerUnit < 0 {
		return common.NewAppError("VALIDATION_ERROR", "cost per unit cannot be negative", http.StatusBadRequest, nil)
	}
	return nil
}

func validateSize(in SizeInput) error {
	if strings.TrimSpace(in.Size) == "" {
		return common.NewAppError("VALIDATION_ERROR", "size label is required", http.StatusBadRequest, nil)
	}
	if in.Price < 0 {
		return common.NewAppError("VALIDATION_ERROR", "price cannot be negative", http.StatusBadRequest, nil)
	}
	return nil
}

func toIngredient(row db.Ingredient) Ingredient {
	return Ingredient{
		ID:          common.UUIDString(row.ID),
		Name:        row.Name,
		Unit:        row.Unit,
		CostPerUnit: row.CostPerUnit,
	}
}

func toSizePrice(row db.SizePrice) SizePrice {
	return SizePrice{
		ID:           common.UUIDString(row.ID),
		Size:         row.Size,
		Price:        row.Price,
		LaborPercent: row.LaborPercent,
	}
}

func toProduct(row db.Product, sizes []db.SizePrice) Product {
	out := Product{
		ID:    common.UUIDString(row.ID),
		Name:  row.Name,
		Sizes: make([]SizePrice, 0, len(sizes)),
	}
	for _, size := range sizes {
		out.Sizes = append(out.Sizes, toSizePrice(size))
	}
	return out
}
