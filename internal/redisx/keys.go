package redisx

import "time"

const (
	// Cache status order: order_status:{order_id} -> {"status":"...","total_cents":N}
	KeyOrderStatus = "order_status:%s"

	// Cache listing produk storefront: satu key, di-drop tiap mutasi katalog/stok.
	KeyProductList = "catalog:products"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLProductList = 60 * time.Second
	TTLDedup       = 48 * time.Hour
)
