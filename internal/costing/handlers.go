package costing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-faktur/internal/common"
	"github.com/noah-isme/backend-faktur/internal/obs"
)

// Handler wires recipe costing to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type addComponentRequest struct {
	IngredientID string  `json:"ingredientId" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
}

type setLaborRequest struct {
	LaborPercent float64 `json:"laborPercent"`
}

type componentPayload struct {
	ID             string  `json:"id"`
	IngredientID   string  `json:"ingredientId"`
	IngredientName string  `json:"ingredientName"`
	Unit           string  `json:"unit"`
	QuantityNeeded float64 `json:"quantityNeeded"`
	UnitCost       int64   `json:"unitCost"`
	CalculatedCost int64   `json:"calculatedCost"`
}

type summaryPayload struct {
	Components         []componentPayload `json:"components"`
	IngredientSubtotal int64              `json:"ingredientSubtotal"`
	LaborPercent       float64            `json:"laborPercent"`
	LaborCost          int64              `json:"laborCost"`
	FinalCOGS          int64              `json:"finalCogs"`
	SellingPrice       int64              `json:"sellingPrice"`
	Profit             int64              `json:"profit"`
	Margin             float64            `json:"margin"`
}

// Costing returns the current cost breakdown for a size tier.
func (h *Handler) Costing(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Costing(r.Context(), chi.URLParam(r, "sizeID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toSummaryPayload(summary)})
}

// AddComponent adds or updates an ingredient quantity on a size tier's recipe.
func (h *Handler) AddComponent(w http.ResponseWriter, r *http.Request) {
	var payload addComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if err := h.validate().Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "ingredient and a positive quantity are required", nil)
		return
	}
	summary, err := h.Svc.AddComponent(r.Context(), chi.URLParam(r, "sizeID"), payload.IngredientID, payload.Quantity)
	if err != nil {
		obs.CountRecipeChange("add_component", "error")
		h.writeError(w, err)
		return
	}
	obs.CountRecipeChange("add_component", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": toSummaryPayload(summary)})
}

// RemoveComponent detaches one component from the recipe.
func (h *Handler) RemoveComponent(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.RemoveComponent(r.Context(), chi.URLParam(r, "sizeID"), chi.URLParam(r, "componentID"))
	if err != nil {
		obs.CountRecipeChange("remove_component", "error")
		h.writeError(w, err)
		return
	}
	obs.CountRecipeChange("remove_component", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": toSummaryPayload(summary)})
}

// SetLaborPercent stores a new labor surcharge percentage on the size tier.
func (h *Handler) SetLaborPercent(w http.ResponseWriter, r *http.Request) {
	var payload setLaborRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	summary, err := h.Svc.SetLaborPercent(r.Context(), chi.URLParam(r, "sizeID"), payload.LaborPercent)
	if err != nil {
		obs.CountRecipeChange("set_labor", "error")
		h.writeError(w, err)
		return
	}
	obs.CountRecipeChange("set_labor", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": toSummaryPayload(summary)})
}

func (h *Handler) validate() *validator.Validate {
	if h.Validate != nil {
		return h.Validate
	}
	return defaultValidator
}

var defaultValidator = validator.New()

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	switch {
	case errors.As(err, &appErr):
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "size tier not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process recipe change", nil)
	}
}

func toSummaryPayload(s Summary) summaryPayload {
	components := make([]componentPayload, 0, len(s.Components))
	for _, c := range s.Components {
		components = append(components, componentPayload{
			ID:             c.ID,
			IngredientID:   c.IngredientID,
			IngredientName: c.IngredientName,
			Unit:           c.Unit,
			QuantityNeeded: c.QuantityNeeded,
			UnitCost:       c.UnitCost,
			CalculatedCost: c.CalculatedCost,
		})
	}
	return summaryPayload{
		Components:         components,
		IngredientSubtotal: s.IngredientSubtotal,
		LaborPercent:       s.LaborPercent,
		LaborCost:          s.LaborCost,
		FinalCOGS:          s.FinalCOGS,
		SellingPrice:       s.SellingPrice,
		Profit:             s.Profit,
		Margin:             s.Margin,
	}
}
