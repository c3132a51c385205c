package orders

// Helper murni untuk perhitungan rekonsiliasi; semua mutasi DB ada di service.

func subtotalCents(items []OrderItem) int {
	var sum int
	for _, it := range items {
		sum += it.PriceCents * it.Quantity
	}
	return sum
}

// clampTotal: total tidak pernah negatif walau discount > subtotal.
func clampTotal(subtotal, discount int) int {
	if discount >= subtotal {
		return 0
	}
	return subtotal - discount
}

// reservedQty: qty lama per product, dipakai credit-back saat cek availability.
func reservedQty(items []OrderItem) map[string]int {
	m := make(map[string]int, len(items))
	for _, it := range items {
		m[it.ProductID] += it.Quantity
	}
	return m
}

// requestedQty: total qty yang diminta per product; baris duplikat untuk
// product yang sama dijumlah dulu sebelum dicek ke stok.
func requestedQty(items []ItemInput) map[string]int {
	m := make(map[string]int, len(items))
	for _, it := range items {
		m[it.ProductID] += it.Quantity
	}
	return m
}

// itemDeltas diff item lama vs baru keyed product_id, satu pass.
// delta > 0 -> qty naik (stok harus dikurangi), delta < 0 -> qty turun atau
// item hilang (stok dikembalikan).
func itemDeltas(old []OrderItem, next []ItemInput) map[string]int {
	deltas := make(map[string]int, len(old)+len(next))
	for _, it := range old {
		deltas[it.ProductID] -= it.Quantity
	}
	for _, it := range next {
		deltas[it.ProductID] += it.Quantity
	}
	for pid, d := range deltas {
		if d == 0 {
			delete(deltas, pid)
		}
	}
	return deltas
}
