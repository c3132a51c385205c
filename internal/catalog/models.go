package catalog

import "time"

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PriceCents   int       `json:"price_cents"`
	Stock        int       `json:"stock"`
	CategoryID   *string   `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProductInput struct {
	Name       string  `json:"name"`
	PriceCents int     `json:"price_cents"`
	Stock      int     `json:"stock"`
	CategoryID *string `json:"category_id,omitempty"`
}

// UpdateProductInput: nil = field tidak diubah.
type UpdateProductInput struct {
	Name       *string `json:"name,omitempty"`
	PriceCents *int    `json:"price_cents,omitempty"`
	Stock      *int    `json:"stock,omitempty"`
	CategoryID *string `json:"category_id,omitempty"`
}

type CreateCategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"` // kosong -> digenerate dari name
}

type UpdateCategoryInput struct {
	Name *string `json:"name,omitempty"`
	Slug *string `json:"slug,omitempty"`
}
