package models

import "time"

type Brand struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name" validate:"required,min=2,max=255"`
	Tagline   string    `json:"tagline,omitempty"`
	Website   string    `json:"website,omitempty" validate:"omitempty,url"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateBrandRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Tagline string `json:"tagline,omitempty"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
}

type UpdateBrandRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Tagline *string `json:"tagline,omitempty"`
	Website *string `json:"website,omitempty" validate:"omitempty,url"`
}
