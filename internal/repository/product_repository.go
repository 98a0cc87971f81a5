package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"snackreach/internal/interfaces"
	"snackreach/internal/models"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.DietaryTags == nil {
		product.DietaryTags = []string{}
	}

	query := `
		INSERT INTO products (id, brand_id, name, description, category, price_cents, dietary_tags, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		product.ID, product.BrandID, product.Name, product.Description,
		product.Category, product.PriceCents, pq.Array(product.DietaryTags), product.Active,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `
		SELECT id, brand_id, name, description, category, price_cents, dietary_tags, image_url, active, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.BrandID, &p.Name, &p.Description, &p.Category,
		&p.PriceCents, pq.Array(&p.DietaryTags), &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter *models.ProductFilter) ([]models.Product, error) {
	query := `
		SELECT id, brand_id, name, description, category, price_cents, dietary_tags, image_url, active, created_at, updated_at
		FROM products
		WHERE active = TRUE
	`

	args := make([]any, 0, 5)
	argPos := 1
	if filter.Query != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argPos)
		args = append(args, filter.Category)
		argPos++
	}
	if filter.BrandID != "" {
		query += fmt.Sprintf(" AND brand_id = $%d", argPos)
		args = append(args, filter.BrandID)
		argPos++
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.BrandID, &p.Name, &p.Description, &p.Category,
			&p.PriceCents, pq.Array(&p.DietaryTags), &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *productRepository) CountByBrand(ctx context.Context, brandID string) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE brand_id = $1`, brandID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *productRepository) Update(ctx context.Context, id string, req *models.UpdateProductRequest) error {
	var tags any
	if req.DietaryTags != nil {
		tags = pq.Array(*req.DietaryTags)
	}

	query := `
		UPDATE products
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			category = COALESCE($3, category),
			price_cents = COALESCE($4, price_cents),
			dietary_tags = COALESCE($5, dietary_tags),
			active = COALESCE($6, active),
			updated_at = $7
		WHERE id = $8
		RETURNING id
	`

	var outID string
	return r.db.QueryRowContext(ctx, query,
		req.Name, req.Description, req.Category, req.PriceCents, tags, req.Active, time.Now().UTC(), id,
	).Scan(&outID)
}

func (r *productRepository) UpdateImageURL(ctx context.Context, id string, imageURL string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET image_url = $1, updated_at = $2 WHERE id = $3`, imageURL, time.Now().UTC(), id)
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

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
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
