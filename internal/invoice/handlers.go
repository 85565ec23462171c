package invoice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-faktur/internal/common"
	"github.com/noah-isme/backend-faktur/internal/obs"
)

// Handler wires invoice operations to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// Preview recomputes a draft invoice without persisting anything.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var payload PreviewInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	out, err := h.Svc.Preview(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	obs.CountInvoicePreview()
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

// Create persists a finished invoice atomically.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload CreateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if err := h.validate().Struct(payload); err != nil {
		obs.CountInvoiceCreate("invalid")
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invoice number and at least one item are required", nil)
		return
	}
	out, err := h.Svc.Create(r.Context(), payload)
	if err != nil {
		obs.CountInvoiceCreate(createResult(err))
		h.writeError(w, err)
		return
	}
	obs.CountInvoiceCreate("created")
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

// Get returns one invoice hydrated with its lines.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": detail})
}

// List returns invoice headers newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	summaries, total, err := h.Svc.List(r.Context(), page, perPage)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": summaries,
		"pagination": common.Pagination{
			Page:       page,
			PerPage:    perPage,
			TotalItems: int(total),
		},
	})
}

func (h *Handler) validate() *validator.Validate {
	if h.Validate != nil {
		return h.Validate
	}
	return defaultValidator
}

var defaultValidator = validator.New()

func createResult(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateNumber):
		return "duplicate"
	case common.IsAppError(err):
		return "invalid"
	default:
		return "error"
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	switch {
	case errors.As(err, &appErr):
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
	case errors.Is(err, ErrDuplicateNumber):
		common.JSONError(w, http.StatusConflict, "DUPLICATE_NUMBER", "invoice number already exists", nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "invoice not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process invoice", nil)
	}
}
