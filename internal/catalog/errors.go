package catalog

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidPrice     = errors.New("price must be non-negative")
	ErrInvalidStock     = errors.New("stock must be non-negative")
	ErrInvalidSlug      = errors.New("invalid slug format")
	ErrSlugTaken        = errors.New("slug already in use")
	// Produk yang masih direferensikan order item tidak boleh dihapus.
	ErrProductInUse = errors.New("product is referenced by existing orders")
)
