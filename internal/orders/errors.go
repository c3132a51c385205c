package orders

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrNoItems         = errors.New("order must have at least one item")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must be non-negative")
	ErrInvalidDiscount = errors.New("discount must be non-negative")
	// Discount wajib dikirim saat replace items karena dipakai hitung total.
	ErrDiscountRequired = errors.New("discount is required when replacing items")
	ErrEmptyUpdate      = errors.New("nothing to update")
	ErrOrderCompleted   = errors.New("cannot delete a completed order, cancel it first")
)

// InsufficientStockError selalu bawa angka available vs required supaya
// pesan bisa langsung ditampilkan ke user.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Required    int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Required: %d", name, e.Available, e.Required)
}
