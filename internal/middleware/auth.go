package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/edustack/edu-be/internal/auth"
	"github.com/edustack/edu-be/internal/http/respond"
	"github.com/edustack/edu-be/internal/models"
	"github.com/edustack/edu-be/internal/storage"
)

type contextKey struct{}

var userKey contextKey

const unauthorizedDetail = "Could not validate credentials"

// Guard is the per-request session gate for protected endpoints: it
// extracts the bearer token, verifies it, and resolves the subject to a
// stored user. Every failure mode produces the same 401.
type Guard struct {
	tokens *auth.TokenManager
	store  storage.Store
}

// NewGuard constructs the gate.
func NewGuard(tokens *auth.TokenManager, store storage.Store) *Guard {
	return &Guard{tokens: tokens, store: store}
}

// Wrap protects a handler; on success the resolved user is attached to the
// request context for UserFrom.
func (g *Guard) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.Error(w, http.StatusUnauthorized, unauthorizedDetail)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			respond.Error(w, http.StatusUnauthorized, unauthorizedDetail)
			return
		}

		email, err := g.tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, unauthorizedDetail)
			return
		}

		user, err := g.store.GetUserByEmail(r.Context(), email)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				log.Printf("session guard: resolve user: %v", err)
			}
			respond.Error(w, http.StatusUnauthorized, unauthorizedDetail)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// UserFrom returns the user the Guard attached to the context.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
