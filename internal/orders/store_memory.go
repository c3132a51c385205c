package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore implementasi Store in-memory, dipakai test double service.
// "Transaksi" = snapshot seluruh state; fn gagal -> state dikembalikan utuh,
// meniru semantik rollback Postgres.
type MemoryStore struct {
	mu       sync.Mutex
	products map[string]*Product
	orders   map[string]*Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*Product),
		orders:   make(map[string]*Order),
	}
}

func (m *MemoryStore) SeedProduct(p Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.products[p.ID] = &cp
}

// ProductStock helper assert stok di test.
func (m *MemoryStore) ProductStock(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[productID]; ok {
		return p.Stock
	}
	return -1
}

func (m *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prodSnap := make(map[string]*Product, len(m.products))
	for id, p := range m.products {
		cp := *p
		prodSnap[id] = &cp
	}
	orderSnap := make(map[string]*Order, len(m.orders))
	for id, o := range m.orders {
		orderSnap[id] = cloneOrder(o)
	}

	if err := fn(&memTx{m: m}); err != nil {
		m.products = prodSnap
		m.orders = orderSnap
		return err
	}
	return nil
}

func cloneOrder(o *Order) *Order {
	cp := *o
	cp.Items = append([]OrderItem(nil), o.Items...)
	return &cp
}

type memTx struct{ m *MemoryStore }

func (t *memTx) ProductForUpdate(ctx context.Context, productID string) (*Product, error) {
	p, ok := t.m.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) AdjustStock(ctx context.Context, productID string, delta int) error {
	p, ok := t.m.products[productID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if p.Stock+delta < 0 {
		// padanan CHECK (stock >= 0) di schema
		return fmt.Errorf("stock would go negative for %s", productID)
	}
	p.Stock += delta
	return nil
}

func (t *memTx) OrderForUpdate(ctx context.Context, orderID string) (*Order, error) {
	o, ok := t.m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	out := cloneOrder(o)
	t.m.decorateItems(out.Items)
	return out, nil
}

func (t *memTx) InsertOrder(ctx context.Context, o *Order) error {
	cp := cloneOrder(o)
	cp.Items = nil // items masuk lewat InsertItems
	t.m.orders[o.ID] = cp
	return nil
}

func (t *memTx) UpdateOrder(ctx context.Context, o *Order) error {
	cur, ok := t.m.orders[o.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, o.ID)
	}
	cur.Status = o.Status
	cur.DiscountCents = o.DiscountCents
	cur.TotalCents = o.TotalCents
	cur.UpdatedAt = o.UpdatedAt
	return nil
}

func (t *memTx) DeleteOrder(ctx context.Context, orderID string) error {
	delete(t.m.orders, orderID)
	return nil
}

func (t *memTx) InsertItems(ctx context.Context, items []OrderItem) error {
	for _, it := range items {
		o, ok := t.m.orders[it.OrderID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, it.OrderID)
		}
		if _, exists := t.m.products[it.ProductID]; !exists {
			return fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
		}
		o.Items = append(o.Items, it)
	}
	return nil
}

func (t *memTx) DeleteItems(ctx context.Context, orderID string) error {
	if o, ok := t.m.orders[orderID]; ok {
		o.Items = nil
	}
	return nil
}

// decorateItems isi nama + stok produk terkini ala JOIN ke products.
func (m *MemoryStore) decorateItems(items []OrderItem) {
	for i := range items {
		if p, ok := m.products[items[i].ProductID]; ok {
			items[i].ProductName = p.Name
			items[i].ProductStock = p.Stock
		}
	}
}

func (m *MemoryStore) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	out := cloneOrder(o)
	m.decorateItems(out.Items)
	return out, nil
}

func (m *MemoryStore) ListOrders(ctx context.Context) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Order, 0, len(m.orders))
	for _, o := range m.orders {
		cp := cloneOrder(o)
		m.decorateItems(cp.Items)
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
