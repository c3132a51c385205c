package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/users"
)

type Handlers struct {
	Orders  *OrdersHandler
	Catalog *CatalogHandler
	Users   *UsersHandler
	Auth    *AuthHandler
	Tokens  *auth.Tokens
}

// NewRouter susun tiga lapis: publik (storefront + auth), authenticated
// (order milik customer), dan admin (dashboard).
func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h.Auth.Register(r)

	r.Group(func(authed chi.Router) {
		authed.Use(Authenticate(h.Tokens))

		admin := authed.With(RequireRole(users.RoleAdmin))

		h.Catalog.Register(r, admin)
		h.Orders.Register(authed, admin)
		h.Users.Register(admin)
	})

	return r
}
