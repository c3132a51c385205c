package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/users"
)

type AuthHandler struct {
	Users  *users.Repo
	Tokens *auth.Tokens
	Secure bool // cookie Secure flag, false untuk dev lokal
	Log    *zap.Logger
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         *users.User `json:"user,omitempty"`
}

// register selalu bikin customer; admin dibuat lewat seeding atau
// endpoint user management.
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, in.Email, in.Name, hash, users.RoleCustomer)
	if err != nil {
		writeError(w, err)
		return
	}
	h.issue(w, u)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			// jangan bedain "user tidak ada" vs "password salah"
			writeError(w, errInvalidCredentials)
			return
		}
		writeError(w, err)
		return
	}
	if !auth.CheckPassword(in.Password, u.PasswordHash) {
		writeError(w, errInvalidCredentials)
		return
	}
	h.issue(w, u)
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErrorKind(w, http.StatusBadRequest, KindInvalidArgument, "invalid json")
		return
	}

	userID, err := h.Tokens.ValidateRefresh(in.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, auth.ErrInvalidToken)
			return
		}
		writeError(w, err)
		return
	}
	h.issue(w, u)
}

func (h *AuthHandler) issue(w http.ResponseWriter, u *users.User) {
	access, expiresAt, err := h.Tokens.IssueAccess(u.ID, u.Email, u.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	refresh, _, err := h.Tokens.IssueRefresh(u.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    access,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         u,
	})
}
