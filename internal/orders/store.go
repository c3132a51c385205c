package orders

import "context"

// Store adalah handle storage yang di-inject ke Service supaya bisa
// dipasangi test double. Semua mutasi jalan di dalam satu transaksi:
// fn return error -> rollback total, tidak ada efek parsial.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
}

// Tx: primitif mutasi di dalam transaksi. ProductForUpdate me-lock row
// produk (serialisasi read-then-write stok antar request).
type Tx interface {
	ProductForUpdate(ctx context.Context, productID string) (*Product, error)
	// AdjustStock menambah stok dengan delta (negatif = kurangi). Storage
	// menolak hasil negatif.
	AdjustStock(ctx context.Context, productID string, delta int) error

	OrderForUpdate(ctx context.Context, orderID string) (*Order, error)
	InsertOrder(ctx context.Context, o *Order) error
	UpdateOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, orderID string) error

	InsertItems(ctx context.Context, items []OrderItem) error
	DeleteItems(ctx context.Context, orderID string) error
}
