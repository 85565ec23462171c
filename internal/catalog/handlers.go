package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-faktur/internal/common"
)

// Handler wires catalog CRUD to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Ingredients lists every ingredient.
func (h *Handler) Ingredients(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.Ingredients(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// CreateIngredient stores a new ingredient.
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var payload IngredientInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if err := h.validate().Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name, unit and a non-negative cost are required", nil)
		return
	}
	item, err := h.Svc.CreateIngredient(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": item})
}

// UpdateIngredient rewrites an ingredient.
func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	var payload IngredientInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	item, err := h.Svc.UpdateIngredient(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

// DeleteIngredient removes an ingredient.
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteIngredient(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Products lists every product with its size tiers.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.Products(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

type productRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateProduct stores a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if err := h.validate().Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "product name is required", nil)
		return
	}
	item, err := h.Svc.CreateProduct(r.Context(), payload.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": item})
}

// UpdateProduct renames a product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	item, err := h.Svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), payload.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddSize attaches a size/price tier to a product.
func (h *Handler) AddSize(w http.ResponseWriter, r *http.Request) {
	var payload SizeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if err := h.validate().Struct(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "size label and a non-negative price are required", nil)
		return
	}
	item, err := h.Svc.AddSize(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": item})
}

// UpdateSize rewrites a size/price tier.
func (h *Handler) UpdateSize(w http.ResponseWriter, r *http.Request) {
	var payload SizeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	item, err := h.Svc.UpdateSize(r.Context(), chi.URLParam(r, "sizeID"), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

// DeleteSize removes a size/price tier.
func (h *Handler) DeleteSize(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteSize(r.Context(), chi.URLParam(r, "sizeID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "catalog record not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process catalog request", nil)
	}
}
