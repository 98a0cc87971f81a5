package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"snackreach/internal/interfaces"
	"snackreach/internal/models"
)

type brandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) interfaces.BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(ctx context.Context, brand *models.Brand) error {
	if brand.ID == "" {
		brand.ID = uuid.NewString()
	}

	query := `
		INSERT INTO brands (id, owner_id, name, tagline, website, logo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query, brand.ID, brand.OwnerID, brand.Name, brand.Tagline, brand.Website, brand.LogoURL).
		Scan(&brand.CreatedAt, &brand.UpdatedAt)
}

func (r *brandRepository) GetByID(ctx context.Context, id string) (*models.Brand, error) {
	query := `
		SELECT id, owner_id, name, tagline, website, logo_url, created_at, updated_at
		FROM brands
		WHERE id = $1
	`

	var b models.Brand
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.OwnerID, &b.Name, &b.Tagline, &b.Website, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *brandRepository) List(ctx context.Context) ([]models.Brand, error) {
	query := `
		SELECT id, owner_id, name, tagline, website, logo_url, created_at, updated_at
		FROM brands
		ORDER BY created_at DESC
	`
	return r.queryBrands(ctx, query)
}

func (r *brandRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Brand, error) {
	query := `
		SELECT id, owner_id, name, tagline, website, logo_url, created_at, updated_at
		FROM brands
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	return r.queryBrands(ctx, query, ownerID)
}

func (r *brandRepository) queryBrands(ctx context.Context, query string, args ...any) ([]models.Brand, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []models.Brand
	for rows.Next() {
		var b models.Brand
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Tagline, &b.Website, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}

	return brands, rows.Err()
}

func (r *brandRepository) Update(ctx context.Context, id string, req *models.UpdateBrandRequest) error {
	query := `
		UPDATE brands
		SET name = COALESCE($1, name),
			tagline = COALESCE($2, tagline),
			website = COALESCE($3, website),
			updated_at = $4
		WHERE id = $5
		RETURNING id
	`

	var outID string
	return r.db.QueryRowContext(ctx, query, req.Name, req.Tagline, req.Website, time.Now().UTC(), id).Scan(&outID)
}

func (r *brandRepository) Delete(ctx context.Context, id string) error {
	var productCount int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE brand_id = $1`, id).Scan(&productCount)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return &interfaces.DeletionBlockedError{
			Resource:   "brand",
			References: map[string]int64{"products": productCount},
		}
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
