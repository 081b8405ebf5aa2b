package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edustack/edu-be/internal/auth"
	"github.com/edustack/edu-be/internal/models"
)

func TestGetMe(t *testing.T) {
	t.Parallel()

	mux, _, _ := newTestMux(t)
	tok := registerUser(t, mux, "me@b.com", "secret", "Me")

	resp := doJSON(t, mux, http.MethodGet, "/users/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	user := decodeBody[models.User](t, resp)
	require.Equal(t, "me@b.com", user.Email)
	require.Equal(t, "Me", user.Name)
}

func TestGetMeWithoutToken(t *testing.T) {
	t.Parallel()

	mux, _, _ := newTestMux(t)

	resp := doJSON(t, mux, http.MethodGet, "/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestUpdateProfileWithoutPasswordKeepsHash(t *testing.T) {
	t.Parallel()

	mux, store, _ := newTestMux(t)
	tok := registerUser(t, mux, "me@b.com", "original-pass", "Me")

	before, err := store.GetUserByEmail(context.Background(), "me@b.com")
	require.NoError(t, err)

	resp := doJSON(t, mux, http.MethodPut, "/users/me", tok, map[string]string{
		"email": "me@b.com", "name": "Renamed",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decodeBody[models.User](t, resp)
	require.Equal(t, "Renamed", updated.Name)

	after, err := store.GetUserByEmail(context.Background(), "me@b.com")
	require.NoError(t, err)
	require.Equal(t, before.PasswordHash, after.PasswordHash, "hash must not change without a new password")
}

func TestUpdateProfileWithPasswordRehashes(t *testing.T) {
	t.Parallel()

	mux, store, _ := newTestMux(t)
	tok := registerUser(t, mux, "me@b.com", "original-pass", "Me")

	before, err := store.GetUserByEmail(context.Background(), "me@b.com")
	require.NoError(t, err)

	resp := doJSON(t, mux, http.MethodPut, "/users/me", tok, map[string]string{
		"email": "me@b.com", "name": "Me", "password": "new-pass",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	after, err := store.GetUserByEmail(context.Background(), "me@b.com")
	require.NoError(t, err)
	require.NotEqual(t, before.PasswordHash, after.PasswordHash)
	require.True(t, auth.VerifyPassword("new-pass", after.PasswordHash))
	require.False(t, auth.VerifyPassword("original-pass", after.PasswordHash))
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	t.Parallel()

	mux, _, _ := newTestMux(t)
	registerUser(t, mux, "taken@b.com", "secret", "Other")
	tok := registerUser(t, mux, "me@b.com", "secret", "Me")

	resp := doJSON(t, mux, http.MethodPut, "/users/me", tok, map[string]string{
		"email": "taken@b.com", "name": "Me",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.JSONEq(t, `{"detail":"Email already registered"}`, resp.Body.String())
}

// A token survives a password change: verification is stateless and there
// is no revocation before expiry.
func TestTokenStillValidAfterPasswordChange(t *testing.T) {
	t.Parallel()

	mux, _, _ := newTestMux(t)
	tok := registerUser(t, mux, "me@b.com", "original-pass", "Me")

	resp := doJSON(t, mux, http.MethodPut, "/users/me", tok, map[string]string{
		"email": "me@b.com", "name": "Me", "password": "new-pass",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, mux, http.MethodGet, "/users/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.Code)
}
