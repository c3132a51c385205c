package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

type CatalogHandler struct {
	Repo  *catalog.Repo
	Cache *catalog.CachedRepo // nil -> langsung ke DB
	Log   *zap.Logger
}

func (h *CatalogHandler) Register(public chi.Router, admin chi.Router) {
	public.Get("/products", h.listProducts)
	public.Get("/products/{id}", h.getProduct)
	public.Get("/categories", h.listCategories)

	admin.Post("/products", h.createProduct)
	admin.Patch("/products/{id}", h.updateProduct)
	admin.Delete("/products/{id}", h.deleteProduct)
	admin.Post("/categories", h.createCategory)
	admin.Patch("/categories/{id}", h.updateCategory)
	admin.Delete("/categories/{id}", h.deleteCategory)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		out []catalog.Product
		err error
	)
	if h.Cache != nil {
		out, err = h.Cache.ListProducts(ctx)
	} else {
		out, err = h.Repo.ListProducts(ctx)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.CreateProduct(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidate(ctx)
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.UpdateProduct(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.invalidate(ctx)
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.DeleteProduct(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	h.invalidate(ctx)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Repo.ListCategories(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateCategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Repo.CreateCategory(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.UpdateCategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Repo.UpdateCategory(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.DeleteCategory(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	h.invalidate(ctx)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CatalogHandler) invalidate(ctx context.Context) {
	if h.Cache != nil {
		h.Cache.Invalidate(ctx)
	}
}
