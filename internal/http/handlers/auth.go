package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/edustack/edu-be/internal/auth"
	"github.com/edustack/edu-be/internal/http/respond"
	"github.com/edustack/edu-be/internal/models"
	"github.com/edustack/edu-be/internal/models/dto"
	"github.com/edustack/edu-be/internal/storage"
)

const tokenType = "bearer"

// AuthHandler owns the register and login endpoints.
type AuthHandler struct {
	store  storage.Store
	tokens *auth.TokenManager

	// Verified against when no account matches, so a missing user costs
	// the same hash computation as a wrong password.
	dummyHash string
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.Store, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, dummyHash: auth.DummyHash()}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRegistration(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("register: hash password: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Email:        strings.TrimSpace(req.Email),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: passwordHash,
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusBadRequest, "Email already registered")
		default:
			log.Printf("register: create user: %v", err)
			respond.Error(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	h.respondWithToken(w, created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Burn a verification anyway so a probe cannot tell a missing
			// account from a wrong password by response time.
			auth.VerifyPassword(req.Password, h.dummyHash)
			respond.Error(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		log.Printf("login: fetch user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	h.respondWithToken(w, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user models.User) {
	token, err := h.tokens.Issue(user.Email)
	if err != nil {
		log.Printf("auth: issue token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		User:        user,
	})
}

func validateRegistration(req dto.RegisterRequest) error {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Name) == "" {
		return errors.New("email and name are required")
	}
	if req.Password == "" || !utf8.ValidString(req.Password) {
		return errors.New("password is required")
	}
	return nil
}
