package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"snackreach/internal/config"
	"snackreach/internal/interfaces"
	"snackreach/internal/middleware"
	"snackreach/internal/models"
)

type ProductHandler struct {
	repo      interfaces.ProductRepository
	brandRepo interfaces.BrandRepository
	s3Config  *config.S3Config
	validator *validator.Validate
}

func NewProductHandler(repo interfaces.ProductRepository, brandRepo interfaces.BrandRepository, s3Config *config.S3Config) *ProductHandler {
	return &ProductHandler{
		repo:      repo,
		brandRepo: brandRepo,
		s3Config:  s3Config,
		validator: validator.New(),
	}
}

// ownsBrand checks the authenticated user against the brand owner;
// it writes the error response itself and reports whether to continue.
func (h *ProductHandler) ownsBrand(w http.ResponseWriter, r *http.Request, brandID string) bool {
	brand, err := h.brandRepo.GetByID(r.Context(), brandID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "brand_not_found", "Brand not found")
			return false
		}
		writeJSONError(w, http.StatusInternalServerError, "get_brand_failed", "Failed to get brand")
		return false
	}
	if brand.OwnerID != middleware.UserID(r.Context()) {
		writeJSONError(w, http.StatusForbidden, "forbidden", "You do not own this brand")
		return false
	}
	return true
}

// @Tags Products
// @Summary Create product
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if !h.ownsBrand(w, r, req.BrandID) {
		return
	}

	product := &models.Product{
		BrandID:     req.BrandID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		DietaryTags: req.DietaryTags,
		Active:      true,
	}

	if err := h.repo.Create(r.Context(), product); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "create_product_failed", "Failed to create product")
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Product ID is required")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "product_not_found", "Product not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_product_failed", "Failed to get product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// @Tags Products
// @Summary Discover products
// @Produce json
// @Param q query string false "Search text"
// @Param category query string false "Category"
// @Param brand_id query string false "Brand ID"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Product
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := &models.ProductFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		BrandID:  r.URL.Query().Get("brand_id"),
		Limit:    intQueryParam(r, "limit", 50),
		Offset:   intQueryParam(r, "offset", 0),
	}

	products, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "list_products_failed", "Failed to list products")
		return
	}

	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Product ID is required")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "product_not_found", "Product not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_product_failed", "Failed to get product")
		return
	}

	if !h.ownsBrand(w, r, product.BrandID) {
		return
	}

	var req models.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.repo.Update(r.Context(), id, &req); err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "product_not_found", "Product not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "update_product_failed", "Failed to update product")
		return
	}

	product, err = h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "get_product_failed", "Failed to get product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// @Tags Products
// @Summary Upload product image
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID"
// @Param file formData file true "Image file"
// @Success 200 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/products/{id}/image [post]
func (h *ProductHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Product ID is required")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "product_not_found", "Product not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_product_failed", "Failed to get product")
		return
	}

	if !h.ownsBrand(w, r, product.BrandID) {
		return
	}

	const maxMemory = 10 << 20 // 10MB
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Unsupported image type")
		return
	}

	key := "products/" + uuid.NewString() + ext
	uploader := manager.NewUploader(h.s3Config.Client)
	if _, err := uploader.Upload(r.Context(), &s3.PutObjectInput{
		Bucket: aws.String(h.s3Config.Bucket),
		Key:    aws.String(key),
		Body:   file,
	}); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "upload_failed", "Failed to upload image")
		return
	}

	imageURL := strings.TrimRight(h.s3Config.PublicBaseURL, "/") + "/" + key
	if err := h.repo.UpdateImageURL(r.Context(), id, imageURL); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "update_product_failed", "Failed to update product")
		return
	}

	product.ImageURL = imageURL
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Product ID is required")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "product_not_found", "Product not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "get_product_failed", "Failed to get product")
		return
	}

	if !h.ownsBrand(w, r, product.BrandID) {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "product_not_found", "Product not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "delete_product_failed", "Failed to delete product")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "product deleted successfully",
		"id":      id,
	})
}
