package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/dto"
	apierrors "github.com/yukikurage/fest-registration-api/internal/errors"
	"github.com/yukikurage/fest-registration-api/internal/models"
)

func TestAuthHandler_Signup(t *testing.T) {
	env := setupHandlerEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "NewUser@Fest.test",
		"password": "supersecret",
		"name":     "New User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	user := decode[dto.UserDTO](t, w)
	assert.Equal(t, "newuser@fest.test", user.Email)
	assert.Equal(t, uint32(constants.FirstUserNumericID), user.NumericID)
	assert.NotEmpty(t, user.PublicID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.ProfileCompleted)
	assert.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")
}

func TestAuthHandler_SignupErrors(t *testing.T) {
	env := setupHandlerEnv(t)
	env.signup(t, "taken@fest.test")

	tests := []struct {
		name    string
		payload map[string]string
		status  int
		code    string
	}{
		{"missing body fields", map[string]string{"email": "x@fest.test"}, http.StatusBadRequest, apierrors.ErrCodeValidation},
		{"short password", map[string]string{"email": "x@fest.test", "password": "short"}, http.StatusBadRequest, apierrors.ErrCodeValidation},
		{"bad email", map[string]string{"email": "not-an-email", "password": "supersecret"}, http.StatusBadRequest, apierrors.ErrCodeValidation},
		{"email taken", map[string]string{"email": "taken@fest.test", "password": "supersecret"}, http.StatusConflict, apierrors.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/signup", tt.payload, nil)
			requireAPIError(t, w, tt.status, tt.code)
		})
	}
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := setupHandlerEnv(t)
	env.signup(t, "existing@fest.test")

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "existing@fest.test",
		"password": "wrong-password",
	}, nil)
	requireAPIError(t, w, http.StatusUnauthorized, apierrors.ErrCodeInvalidCredentials)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "existing@fest.test",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "existing@fest.test", decode[dto.UserDTO](t, w).Email)
}

func TestAuthHandler_MeRequiresSession(t *testing.T) {
	env := setupHandlerEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	requireAPIError(t, w, http.StatusUnauthorized, apierrors.ErrCodeUnauthenticated)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupHandlerEnv(t)
	cookies := env.signup(t, "leaving@fest.test")

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	requireAPIError(t, w, http.StatusUnauthorized, apierrors.ErrCodeUnauthenticated)
}

func TestAuthHandler_AdminEmailGetsAdminRole(t *testing.T) {
	env := setupHandlerEnv(t)
	cookies := env.signup(t, testAdminEmail)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleAdmin, decode[dto.UserDTO](t, w).Role)
}
