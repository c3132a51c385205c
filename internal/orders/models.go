package orders

import "time"

// Product ringkasan yang dibutuhkan rekonsiliasi: stok + harga + nama utk pesan error.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Stock      int    `json:"stock"`
	PriceCents int    `json:"price_cents"`
}

type Order struct {
	ID            string      `json:"id"`
	Status        Status      `json:"status"`
	DiscountCents int         `json:"discount_cents"`
	TotalCents    int         `json:"total_cents"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Items         []OrderItem `json:"items"`
}

type OrderItem struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	// Stok produk setelah operasi; dipakai response & deteksi stock.low.
	ProductStock int `json:"product_stock"`
	Quantity     int `json:"quantity"`
	PriceCents   int `json:"price_cents"`
	TotalCents   int `json:"total_cents"`
}

// ItemInput satu baris item dari client; price adalah snapshot saat order.
type ItemInput struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int    `json:"price_cents"`
}

type CreateInput struct {
	Items         []ItemInput `json:"items"`
	Status        string      `json:"status,omitempty"`
	DiscountCents *int        `json:"discount_cents,omitempty"`
}

// UpdateInput: nil / string kosong artinya field tidak dikirim.
type UpdateInput struct {
	Items         []ItemInput `json:"items,omitempty"`
	Status        string      `json:"status,omitempty"`
	DiscountCents *int        `json:"discount_cents,omitempty"`
}
