package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate apply schema idempotent saat startup. Constraint CHECK (stock >= 0)
// jadi pagar terakhir: stok tidak boleh minus walau ada bug di layer atas.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			slug       TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
			stock       INT NOT NULL CHECK (stock >= 0),
			category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id             UUID PRIMARY KEY,
			status         TEXT NOT NULL,
			discount_cents BIGINT NOT NULL DEFAULT 0 CHECK (discount_cents >= 0),
			total_cents    BIGINT NOT NULL CHECK (total_cents >= 0),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id          UUID PRIMARY KEY,
			order_id    UUID NOT NULL REFERENCES orders(id),
			product_id  UUID NOT NULL REFERENCES products(id),
			quantity    INT NOT NULL CHECK (quantity > 0),
			price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
			total_cents BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)`,
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
