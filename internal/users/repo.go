package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidRole  = errors.New("invalid role")
	ErrInvalidEmail = errors.New("email is required")
	// Admin terakhir tidak boleh dihapus/diturunkan, nanti tidak ada yang
	// bisa masuk dashboard.
	ErrLastAdmin = errors.New("cannot remove the last admin")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCustomer
}

type Repo struct{ DB *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{DB: db} }

func (r *Repo) Create(ctx context.Context, email, name, passwordHash, role string) (*User, error) {
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	u := &User{ID: uuid.NewString(), Email: email, Name: name, PasswordHash: passwordHash, Role: role}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(id, email, name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role).Scan(&u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getWhere(ctx, `email=$1`, email)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getWhere(ctx, `id=$1`, id)
}

func (r *Repo) getWhere(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, created_at FROM users WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, email, name, password_hash, role, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateRole ganti role; menurunkan admin terakhir ditolak.
func (r *Repo) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == RoleAdmin && role != RoleAdmin {
		if err := r.ensureNotLastAdmin(ctx, id); err != nil {
			return nil, err
		}
	}

	ct, err := r.DB.Exec(ctx, `UPDATE users SET role=$2 WHERE id=$1`, id, role)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}
	u.Role = role
	return u, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == RoleAdmin {
		if err := r.ensureNotLastAdmin(ctx, id); err != nil {
			return err
		}
	}
	_, err = r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *Repo) ensureNotLastAdmin(ctx context.Context, excludeID string) error {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role=$1 AND id<>$2`, RoleAdmin, excludeID,
	).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLastAdmin
	}
	return nil
}
