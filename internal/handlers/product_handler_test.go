package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"snackreach/internal/interfaces"
	"snackreach/internal/models"
)

type mockProductRepo struct {
	createFn         func(ctx context.Context, product *models.Product) error
	getByIDFn        func(ctx context.Context, id string) (*models.Product, error)
	listFn           func(ctx context.Context, filter *models.ProductFilter) ([]models.Product, error)
	countByBrandFn   func(ctx context.Context, brandID string) (int64, error)
	updateFn         func(ctx context.Context, id string, req *models.UpdateProductRequest) error
	updateImageURLFn func(ctx context.Context, id string, imageURL string) error
	deleteFn         func(ctx context.Context, id string) error
}

var _ interfaces.ProductRepository = (*mockProductRepo)(nil)

func (m *mockProductRepo) Create(ctx context.Context, product *models.Product) error {
	return m.createFn(ctx, product)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockProductRepo) List(ctx context.Context, filter *models.ProductFilter) ([]models.Product, error) {
	return m.listFn(ctx, filter)
}

func (m *mockProductRepo) CountByBrand(ctx context.Context, brandID string) (int64, error) {
	return m.countByBrandFn(ctx, brandID)
}

func (m *mockProductRepo) Update(ctx context.Context, id string, req *models.UpdateProductRequest) error {
	return m.updateFn(ctx, id, req)
}

func (m *mockProductRepo) UpdateImageURL(ctx context.Context, id string, imageURL string) error {
	return m.updateImageURLFn(ctx, id, imageURL)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

const testBrandUUID = "7a9d4c8e-0f3b-4a21-9c58-2f6f1be0a917"

func TestCreateProductRequiresBrandOwnership(t *testing.T) {
	products := &mockProductRepo{}
	brands := &mockBrandRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Brand, error) {
			return &models.Brand{ID: id, OwnerID: "someone-else", Name: "Crunch Co"}, nil
		},
	}
	h := NewProductHandler(products, brands, nil)

	req := authenticatedRequest(http.MethodPost, "/api/v1/products", "u-1", map[string]any{
		"brand_id":    testBrandUUID,
		"name":        "Kale Chips",
		"price_cents": 499,
	})
	rr := httptest.NewRecorder()
	h.CreateProduct(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateProductDefaultsActive(t *testing.T) {
	var created *models.Product
	products := &mockProductRepo{
		createFn: func(ctx context.Context, product *models.Product) error {
			product.ID = "p-1"
			created = product
			return nil
		},
	}
	brands := &mockBrandRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Brand, error) {
			return &models.Brand{ID: id, OwnerID: "u-1", Name: "Crunch Co"}, nil
		},
	}
	h := NewProductHandler(products, brands, nil)

	req := authenticatedRequest(http.MethodPost, "/api/v1/products", "u-1", map[string]any{
		"brand_id":     testBrandUUID,
		"name":         "Kale Chips",
		"price_cents":  499,
		"dietary_tags": []string{"vegan", "gluten-free"},
	})
	rr := httptest.NewRecorder()
	h.CreateProduct(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created == nil || !created.Active {
		t.Fatalf("new products should start active: %+v", created)
	}
}

func TestCreateProductRejectsZeroPrice(t *testing.T) {
	h := NewProductHandler(&mockProductRepo{}, &mockBrandRepo{}, nil)

	req := authenticatedRequest(http.MethodPost, "/api/v1/products", "u-1", map[string]any{
		"brand_id":    testBrandUUID,
		"name":        "Free Chips",
		"price_cents": 0,
	})
	rr := httptest.NewRecorder()
	h.CreateProduct(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetProductNotFound(t *testing.T) {
	products := &mockProductRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Product, error) {
			return nil, sql.ErrNoRows
		},
	}
	h := NewProductHandler(products, &mockBrandRepo{}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil), "id", "missing")
	rr := httptest.NewRecorder()
	h.GetProduct(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestListProductsPassesFilter(t *testing.T) {
	var seen *models.ProductFilter
	products := &mockProductRepo{
		listFn: func(ctx context.Context, filter *models.ProductFilter) ([]models.Product, error) {
			seen = filter
			return []models.Product{{ID: "p-1", Name: "Kale Chips"}}, nil
		},
	}
	h := NewProductHandler(products, &mockBrandRepo{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?q=kale&category=chips&limit=10&offset=20", nil)
	rr := httptest.NewRecorder()
	h.ListProducts(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if seen == nil || seen.Query != "kale" || seen.Category != "chips" || seen.Limit != 10 || seen.Offset != 20 {
		t.Fatalf("filter not built from the query string: %+v", seen)
	}

	var out []models.Product
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p-1" {
		t.Fatalf("unexpected listing %+v", out)
	}
}

func TestDeleteProductForbiddenForNonOwner(t *testing.T) {
	products := &mockProductRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Product, error) {
			return &models.Product{ID: id, BrandID: testBrandUUID, Name: "Kale Chips"}, nil
		},
	}
	brands := &mockBrandRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Brand, error) {
			return &models.Brand{ID: id, OwnerID: "someone-else", Name: "Crunch Co"}, nil
		},
	}
	h := NewProductHandler(products, brands, nil)

	req := withURLParam(authenticatedRequest(http.MethodDelete, "/api/v1/products/p-1", "u-1", nil), "id", "p-1")
	rr := httptest.NewRecorder()
	h.DeleteProduct(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
}
