package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/edustack/edu-be/internal/auth"
	"github.com/edustack/edu-be/internal/http/respond"
	"github.com/edustack/edu-be/internal/middleware"
	"github.com/edustack/edu-be/internal/models/dto"
	"github.com/edustack/edu-be/internal/storage"
)

// UsersHandler serves the authenticated user's own profile.
type UsersHandler struct {
	store storage.Store
	guard *middleware.Guard
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(store storage.Store, guard *middleware.Guard) *UsersHandler {
	return &UsersHandler{store: store, guard: guard}
}

// Register attaches profile routes to the mux.
func (h *UsersHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users/me", h.guard.Wrap(h.handleMe))
	mux.HandleFunc("PUT /users/me", h.guard.Wrap(h.handleUpdate))
}

func (h *UsersHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (h *UsersHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" {
		respond.Error(w, http.StatusBadRequest, "email and name are required")
		return
	}

	user.Email = strings.TrimSpace(req.Email)
	user.Name = strings.TrimSpace(req.Name)
	// The hash is only recomputed when a new password is supplied.
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Printf("update profile: hash password: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		user.PasswordHash = hash
	}

	updated, err := h.store.UpdateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusUnauthorized, "Could not validate credentials")
		default:
			log.Printf("update profile: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	respond.JSON(w, http.StatusOK, updated)
}
