package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"snackreach/internal/interfaces"
	"snackreach/internal/middleware"
	"snackreach/internal/models"
)

type mockBrandRepo struct {
	createFn      func(ctx context.Context, brand *models.Brand) error
	getByIDFn     func(ctx context.Context, id string) (*models.Brand, error)
	listFn        func(ctx context.Context) ([]models.Brand, error)
	listByOwnerFn func(ctx context.Context, ownerID string) ([]models.Brand, error)
	updateFn      func(ctx context.Context, id string, req *models.UpdateBrandRequest) error
	deleteFn      func(ctx context.Context, id string) error
}

var _ interfaces.BrandRepository = (*mockBrandRepo)(nil)

func (m *mockBrandRepo) Create(ctx context.Context, brand *models.Brand) error {
	return m.createFn(ctx, brand)
}

func (m *mockBrandRepo) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockBrandRepo) List(ctx context.Context) ([]models.Brand, error) {
	return m.listFn(ctx)
}

func (m *mockBrandRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Brand, error) {
	return m.listByOwnerFn(ctx, ownerID)
}

func (m *mockBrandRepo) Update(ctx context.Context, id string, req *models.UpdateBrandRequest) error {
	return m.updateFn(ctx, id, req)
}

func (m *mockBrandRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func authenticatedRequest(method, target, userID string, payload any) *http.Request {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(context.WithValue(req.Context(), middleware.CtxUserID, userID))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateBrandSetsOwner(t *testing.T) {
	var created *models.Brand
	repo := &mockBrandRepo{
		createFn: func(ctx context.Context, brand *models.Brand) error {
			brand.ID = "b-1"
			created = brand
			return nil
		},
	}
	h := NewBrandHandler(repo)

	req := authenticatedRequest(http.MethodPost, "/api/v1/brands", "u-1", map[string]string{
		"name":    "Crunch Co",
		"tagline": "Crunchy things",
	})
	rr := httptest.NewRecorder()
	h.CreateBrand(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created == nil || created.OwnerID != "u-1" {
		t.Fatalf("brand owner not taken from the authenticated user: %+v", created)
	}
}

func TestGetBrandNotFound(t *testing.T) {
	repo := &mockBrandRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Brand, error) {
			return nil, sql.ErrNoRows
		},
	}
	h := NewBrandHandler(repo)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/brands/missing", nil), "id", "missing")
	rr := httptest.NewRecorder()
	h.GetBrand(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateBrandForbiddenForNonOwner(t *testing.T) {
	repo := &mockBrandRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Brand, error) {
			return &models.Brand{ID: id, OwnerID: "someone-else", Name: "Crunch Co"}, nil
		},
	}
	h := NewBrandHandler(repo)

	name := "Renamed"
	req := withURLParam(authenticatedRequest(http.MethodPut, "/api/v1/brands/b-1", "u-1", models.UpdateBrandRequest{Name: &name}), "id", "b-1")
	rr := httptest.NewRecorder()
	h.UpdateBrand(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDeleteBrandBlockedByProducts(t *testing.T) {
	repo := &mockBrandRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Brand, error) {
			return &models.Brand{ID: id, OwnerID: "u-1", Name: "Crunch Co"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			return &interfaces.DeletionBlockedError{
				Resource:   "brand",
				References: map[string]int64{"products": 3},
			}
		},
	}
	h := NewBrandHandler(repo)

	req := withURLParam(authenticatedRequest(http.MethodDelete, "/api/v1/brands/b-1", "u-1", nil), "id", "b-1")
	rr := httptest.NewRecorder()
	h.DeleteBrand(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	refs, ok := body["references"].(map[string]any)
	if !ok || refs["products"] != float64(3) {
		t.Fatalf("expected blocking references in response, got %v", body)
	}
}

func TestListBrandsReturnsEmptyArray(t *testing.T) {
	repo := &mockBrandRepo{
		listFn: func(ctx context.Context) ([]models.Brand, error) {
			return nil, nil
		},
	}
	h := NewBrandHandler(repo)

	rr := httptest.NewRecorder()
	h.ListBrands(rr, httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}
