package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

// Repo katalog: produk + kategori untuk admin dashboard dan storefront.
type Repo struct{ DB *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{DB: db} }

// ---- products ----

func (r *Repo) CreateProduct(ctx context.Context, in CreateProductInput) (*Product, error) {
	if in.Name == "" {
		return nil, ErrInvalidName
	}
	if in.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if in.Stock < 0 {
		return nil, ErrInvalidStock
	}

	p := &Product{
		ID:         uuid.NewString(),
		Name:       in.Name,
		PriceCents: in.PriceCents,
		Stock:      in.Stock,
		CategoryID: in.CategoryID,
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, price_cents, stock, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.PriceCents, p.Stock, p.CategoryID).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isPgErr(err, pgFKViolation) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT p.id, p.name, p.price_cents, p.stock, p.category_id,
		       COALESCE(c.name, ''), p.created_at, p.updated_at
		  FROM products p
		  LEFT JOIN categories c ON c.id = p.category_id
		 WHERE p.id = $1
	`, id).Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.CategoryID,
		&p.CategoryName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id, p.name, p.price_cents, p.stock, p.category_id,
		       COALESCE(c.name, ''), p.created_at, p.updated_at
		  FROM products p
		  LEFT JOIN categories c ON c.id = p.category_id
		 ORDER BY p.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.CategoryID,
			&p.CategoryName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// applyProductPatch terapkan field yang dikirim saja; nil = tidak diubah.
func applyProductPatch(p *Product, in UpdateProductInput) error {
	if in.Name != nil {
		if *in.Name == "" {
			return ErrInvalidName
		}
		p.Name = *in.Name
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return ErrInvalidPrice
		}
		p.PriceCents = *in.PriceCents
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return ErrInvalidStock
		}
		p.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			p.CategoryID = nil // lepas dari kategori
			p.CategoryName = ""
		} else {
			p.CategoryID = in.CategoryID
		}
	}
	return nil
}

// UpdateProduct jalan dalam satu transaksi dengan row produk di-lock.
// Stok juga dimutasi rekonsiliasi order; tanpa lock, PATCH yang cuma ganti
// nama bisa menulis balik stok basi dan menghidupkan lagi stok yang sudah
// direserve.
func (r *Repo) UpdateProduct(ctx context.Context, id string, in UpdateProductInput) (*Product, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var p Product
	err = tx.QueryRow(ctx, `
		SELECT p.id, p.name, p.price_cents, p.stock, p.category_id,
		       COALESCE(c.name, ''), p.created_at, p.updated_at
		  FROM products p
		  LEFT JOIN categories c ON c.id = p.category_id
		 WHERE p.id = $1
		   FOR UPDATE OF p
	`, id).Scan(&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.CategoryID,
		&p.CategoryName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := applyProductPatch(&p, in); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE products
		   SET name=$2, price_cents=$3, stock=$4, category_id=$5, updated_at=now()
		 WHERE id=$1
		RETURNING updated_at
	`, p.ID, p.Name, p.PriceCents, p.Stock, p.CategoryID).Scan(&p.UpdatedAt)
	if isPgErr(err, pgFKViolation) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	var inUse bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM order_items WHERE product_id=$1)`, id,
	).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return ErrProductInUse
	}

	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		// race dengan order baru antara cek dan delete
		if isPgErr(err, pgFKViolation) {
			return ErrProductInUse
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return nil
}

// ---- categories ----

func (r *Repo) CreateCategory(ctx context.Context, in CreateCategoryInput) (*Category, error) {
	if in.Name == "" {
		return nil, ErrInvalidName
	}
	slug := in.Slug
	if slug == "" {
		slug = GenerateSlug(in.Name)
	}
	if !ValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	c := &Category{ID: uuid.NewString(), Name: in.Name, Slug: slug}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO categories(id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.Slug).Scan(&c.CreatedAt, &c.UpdatedAt)
	if isPgErr(err, pgUniqueViolation) {
		return nil, fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateCategory(ctx context.Context, id string, in UpdateCategoryInput) (*Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM categories WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, ErrInvalidName
		}
		c.Name = *in.Name
	}
	if in.Slug != nil {
		if !ValidSlug(*in.Slug) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, *in.Slug)
		}
		c.Slug = *in.Slug
	}

	err = r.DB.QueryRow(ctx, `
		UPDATE categories SET name=$2, slug=$3, updated_at=now() WHERE id=$1
		RETURNING updated_at
	`, c.ID, c.Name, c.Slug).Scan(&c.UpdatedAt)
	if isPgErr(err, pgUniqueViolation) {
		return nil, fmt.Errorf("%w: %q", ErrSlugTaken, c.Slug)
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &c, nil
}

// DeleteCategory: produk di dalamnya dilepas (FK ON DELETE SET NULL).
func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return nil
}

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
