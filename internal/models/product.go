package models

import "time"

type Product struct {
	ID          string    `json:"id"`
	BrandID     string    `json:"brand_id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	DietaryTags []string  `json:"dietary_tags"`
	ImageURL    string    `json:"image_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	BrandID     string   `json:"brand_id" validate:"required,uuid4"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	PriceCents  int64    `json:"price_cents" validate:"required,gt=0"`
	DietaryTags []string `json:"dietary_tags,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	PriceCents  *int64    `json:"price_cents,omitempty" validate:"omitempty,gt=0"`
	DietaryTags *[]string `json:"dietary_tags,omitempty"`
	Active      *bool     `json:"active,omitempty"`
}

// ProductFilter narrows the public discovery listing.
type ProductFilter struct {
	Query    string
	Category string
	BrandID  string
	Limit    int
	Offset   int
}
