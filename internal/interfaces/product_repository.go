package interfaces

import (
	"context"

	"snackreach/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter *models.ProductFilter) ([]models.Product, error)
	CountByBrand(ctx context.Context, brandID string) (int64, error)
	Update(ctx context.Context, id string, req *models.UpdateProductRequest) error
	UpdateImageURL(ctx context.Context, id string, imageURL string) error
	Delete(ctx context.Context, id string) error
}
