package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implementasi Store di atas Postgres. Lock stok per product pakai
// SELECT ... FOR UPDATE supaya dua request yang menyentuh produk sama
// tidak lolos cek stok dari read basi.
type Repo struct{ DB *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{DB: db} }

func (r *Repo) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) ProductForUpdate(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := t.tx.QueryRow(ctx,
		`SELECT id, name, stock, price_cents FROM products WHERE id=$1 FOR UPDATE`,
		productID,
	).Scan(&p.ID, &p.Name, &p.Stock, &p.PriceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *pgTx) AdjustStock(ctx context.Context, productID string, delta int) error {
	ct, err := t.tx.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id=$1`,
		productID, delta,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return nil
}

func (t *pgTx) OrderForUpdate(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := t.tx.QueryRow(ctx,
		`SELECT id, status, discount_cents, total_cents, created_at, updated_at
		   FROM orders WHERE id=$1 FOR UPDATE`,
		orderID,
	).Scan(&o.ID, &o.Status, &o.DiscountCents, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	items, err := scanItems(ctx, t.tx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders(id, status, discount_cents, total_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, o.ID, o.Status, o.DiscountCents, o.TotalCents, o.CreatedAt, o.UpdatedAt)
	return err
}

func (t *pgTx) UpdateOrder(ctx context.Context, o *Order) error {
	ct, err := t.tx.Exec(ctx, `
		UPDATE orders SET status=$2, discount_cents=$3, total_cents=$4, updated_at=$5
		WHERE id=$1
	`, o.ID, o.Status, o.DiscountCents, o.TotalCents, o.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, o.ID)
	}
	return nil
}

func (t *pgTx) DeleteOrder(ctx context.Context, orderID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	return err
}

func (t *pgTx) InsertItems(ctx context.Context, items []OrderItem) error {
	for _, it := range items {
		_, err := t.tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, product_id, quantity, price_cents, total_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, it.ID, it.OrderID, it.ProductID, it.Quantity, it.PriceCents, it.TotalCents)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *pgTx) DeleteItems(ctx context.Context, orderID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID)
	return err
}

// querier dipakai bersama oleh path transaksi dan read-only.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanItems(ctx context.Context, q querier, orderID string) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, p.stock, oi.quantity, oi.price_cents, oi.total_cents
		  FROM order_items oi
		  JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = $1
		 ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductStock,
			&it.Quantity, &it.PriceCents, &it.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repo) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx,
		`SELECT id, status, discount_cents, total_cents, created_at, updated_at
		   FROM orders WHERE id=$1`,
		orderID,
	).Scan(&o.ID, &o.Status, &o.DiscountCents, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	items, err := scanItems(ctx, r.DB, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *Repo) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, status, discount_cents, total_cents, created_at, updated_at
		  FROM orders ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	ids := make([]string, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Status, &o.DiscountCents, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// satu query untuk semua item, dikelompokkan di memory
	itemRows, err := r.DB.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, p.stock, oi.quantity, oi.price_cents, oi.total_cents
		  FROM order_items oi
		  JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ANY($1)
		 ORDER BY oi.id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	byOrder := make(map[string][]OrderItem, len(out))
	for itemRows.Next() {
		var it OrderItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductStock,
			&it.Quantity, &it.PriceCents, &it.TotalCents); err != nil {
			return nil, err
		}
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = byOrder[out[i].ID]
	}
	return out, nil
}
