package interfaces

import (
	"context"

	"snackreach/internal/models"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) error
	GetByID(ctx context.Context, id string) (*models.Brand, error)
	List(ctx context.Context) ([]models.Brand, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Brand, error)
	Update(ctx context.Context, id string, req *models.UpdateBrandRequest) error
	Delete(ctx context.Context, id string) error
}
