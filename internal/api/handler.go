// Package api exposes the account service over HTTP with a uniform JSON
// response envelope.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"admin-console/internal/domain"
	"admin-console/internal/service/security"
)

// Handler serves the account endpoints.
type Handler struct {
	accounts *security.AccountService
	logger   *slog.Logger
}

// NewHandler creates an account API handler.
func NewHandler(accounts *security.AccountService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{accounts: accounts, logger: logger}
}

// Routes mounts the account endpoints. requireAuth guards everything except
// registration and login.
func (h *Handler) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", h.GetMe)
		r.Get("/", h.ListUsers)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
		r.Get("/{id}/password", h.GetPassword)
	})

	return r
}

// Register creates a new account. Anonymous callers always get the User
// role; authenticated admins may assign roles within their authority.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Registration failed", domain.ErrValidation("invalid request body"))
		return
	}

	actor := domain.ActorFromContext(r.Context())
	result, err := h.accounts.Register(r.Context(), actor, req)
	if err != nil {
		respondError(w, "Registration failed", err)
		return
	}

	h.logger.Info("account registered", "id", result.Principal.ID, "role", result.Principal.Role)
	respondJSON(w, http.StatusCreated, "User registered successfully", result)
}

// Login authenticates by email and password and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Login failed", domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, "Login failed", err)
		return
	}

	respondJSON(w, http.StatusOK, "Login successful", result)
}

// GetMe returns the calling principal's own profile.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor := domain.ActorFromContext(r.Context())
	p, err := h.accounts.GetSelf(r.Context(), actor)
	if err != nil {
		respondError(w, "Failed to retrieve user profile", err)
		return
	}
	respondJSON(w, http.StatusOK, "User profile retrieved successfully", map[string]interface{}{"user": p})
}

// ListUsers returns every account. Requires Admin or SuperAdmin.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor := domain.ActorFromContext(r.Context())
	principals, err := h.accounts.ListAll(r.Context(), actor)
	if err != nil {
		respondError(w, "Failed to retrieve users", err)
		return
	}
	respondJSON(w, http.StatusOK, "Users retrieved successfully", map[string]interface{}{
		"users": principals,
		"count": len(principals),
	})
}

// UpdateUser applies a partial update to an account.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Update failed", domain.ErrValidation("invalid request body"))
		return
	}

	actor := domain.ActorFromContext(r.Context())
	p, err := h.accounts.Update(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, "Update failed", err)
		return
	}

	h.logger.Info("account updated", "id", p.ID, "actor", actor.ID)
	respondJSON(w, http.StatusOK, "User updated successfully", map[string]interface{}{"user": p})
}

// DeleteUser removes an account. SuperAdmin only; self-deletion is refused.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := domain.ActorFromContext(r.Context())
	p, err := h.accounts.Delete(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Delete failed", err)
		return
	}

	h.logger.Info("account deleted", "id", p.ID, "actor", actor.ID)
	respondJSON(w, http.StatusOK, "User deleted successfully", map[string]interface{}{"user": p})
}

// GetPassword returns an account's decrypted password. Kept for demo parity
// with the console UI; exposing credentials like this is unsafe anywhere else.
func (h *Handler) GetPassword(w http.ResponseWriter, r *http.Request) {
	actor := domain.ActorFromContext(r.Context())
	password, err := h.accounts.RevealCredential(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "Failed to retrieve password", err)
		return
	}

	respondJSON(w, http.StatusOK, "Password retrieved successfully", map[string]interface{}{
		"password": password,
		"warning":  "This is insecure and for DEMO purposes only!",
	})
}
