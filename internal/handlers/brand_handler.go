package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"snackreach/internal/interfaces"
	"snackreach/internal/middleware"
	"snackreach/internal/models"
)

type BrandHandler struct {
	repo      interfaces.BrandRepository
	validator *validator.Validate
}

func NewBrandHandler(repo interfaces.BrandRepository) *BrandHandler {
	return &BrandHandler{
		repo:      repo,
		validator: validator.New(),
	}
}

func (h *BrandHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	brand := &models.Brand{
		OwnerID: middleware.UserID(r.Context()),
		Name:    req.Name,
		Tagline: req.Tagline,
		Website: req.Website,
	}

	if err := h.repo.Create(r.Context(), brand); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "create_brand_failed", "Failed to create brand")
		return
	}

	writeJSON(w, http.StatusCreated, brand)
}

func (h *BrandHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Brand ID is required")
		return
	}

	brand, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "brand_not_found", "Brand not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_brand_failed", "Failed to get brand")
		return
	}

	writeJSON(w, http.StatusOK, brand)
}

func (h *BrandHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	var (
		brands []models.Brand
		err    error
	)

	if ownerID := r.URL.Query().Get("owner_id"); ownerID != "" {
		brands, err = h.repo.ListByOwner(r.Context(), ownerID)
	} else {
		brands, err = h.repo.List(r.Context())
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "list_brands_failed", "Failed to list brands")
		return
	}

	if brands == nil {
		brands = []models.Brand{}
	}

	writeJSON(w, http.StatusOK, brands)
}

func (h *BrandHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Brand ID is required")
		return
	}

	brand, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "brand_not_found", "Brand not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_brand_failed", "Failed to get brand")
		return
	}

	if brand.OwnerID != middleware.UserID(r.Context()) {
		writeJSONError(w, http.StatusForbidden, "forbidden", "You do not own this brand")
		return
	}

	var req models.UpdateBrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Name == nil && req.Tagline == nil && req.Website == nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "No fields to update")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.repo.Update(r.Context(), id, &req); err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "brand_not_found", "Brand not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "update_brand_failed", "Failed to update brand")
		return
	}

	brand, err = h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "get_brand_failed", "Failed to get brand")
		return
	}

	writeJSON(w, http.StatusOK, brand)
}

func (h *BrandHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Brand ID is required")
		return
	}

	brand, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "brand_not_found", "Brand not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_brand_failed", "Failed to get brand")
		return
	}

	if brand.OwnerID != middleware.UserID(r.Context()) {
		writeJSONError(w, http.StatusForbidden, "forbidden", "You do not own this brand")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		var blocked *interfaces.DeletionBlockedError
		if errors.As(err, &blocked) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":      "Brand still has products",
				"code":       "deletion_blocked",
				"references": blocked.References,
			})
			return
		}
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "brand_not_found", "Brand not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "delete_brand_failed", "Failed to delete brand")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "brand deleted successfully",
		"id":      id,
	})
}
