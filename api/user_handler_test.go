package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t)

	other := models.User{Email: "editor@site.test", PasswordHash: "x", Role: "editor"}
	require.NoError(t, env.db.Create(&other).Error)
	otherToken, err := env.tokens.Generate(other.ID.String(), other.Email)
	require.NoError(t, err)

	admin, err := env.store.UserRepo().FindByEmail(context.Background(), testAdminEmail)
	require.NoError(t, err)
	expired, err := env.tokens.GenerateWithDuration(admin.ID.String(), admin.Email, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"expired token", expired, http.StatusUnauthorized},
		{"not the administrator", otherToken, http.StatusForbidden},
		{"administrator", env.admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/v1/dashboard/blogs", nil, "", tt.token)
			requireStatus(t, rec, tt.status)
			if tt.status != http.StatusOK {
				resp := decodeResponse(t, rec)
				assert.False(t, resp.Success)
				assert.Equal(t, "AuthError", resp.Error)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/v1/user/login", map[string]string{
		"email":    "ADMIN@site.test",
		"password": testAdminPassword,
	}, "")
	requireStatus(t, rec, http.StatusOK)

	var login loginResponse
	resp := decodeData(t, rec, &login)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, testAdminEmail, login.User.Email)

	subject, err := env.tokens.Validate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, subject)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, login.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	t.Run("wrong password", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/user/login", map[string]string{
			"email":    testAdminEmail,
			"password": "nope",
		}, "")
		requireStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/user/login", map[string]string{
			"email":    "ghost@site.test",
			"password": testAdminPassword,
		}, "")
		requireStatus(t, rec, http.StatusUnauthorized)
	})

	t.Run("missing password", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/user/login", map[string]string{"email": testAdminEmail}, "")
		requireStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "password", decodeResponse(t, rec).Field)
	})
}

func TestVerifyToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/v1/user/verify-token", map[string]string{"token": env.admin}, "")
	requireStatus(t, rec, http.StatusOK)
	var data struct {
		User userView `json:"user"`
	}
	decodeData(t, rec, &data)
	assert.Equal(t, testAdminEmail, data.User.Email)

	t.Run("cookie", func(t *testing.T) {
		req := newCookieRequest(t, env.admin)
		rec := env.serve(req)
		requireStatus(t, rec, http.StatusOK)
	})

	t.Run("invalid", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/user/verify-token", map[string]string{"token": "bogus"}, "")
		requireStatus(t, rec, http.StatusUnauthorized)
		assert.Equal(t, "Invalid or expired token", decodeResponse(t, rec).Message)
	})

	t.Run("missing", func(t *testing.T) {
		rec := env.doJSON(http.MethodPost, "/api/v1/user/verify-token", map[string]string{}, "")
		requireStatus(t, rec, http.StatusBadRequest)
	})
}

func TestActorFromContext(t *testing.T) {
	assert.Empty(t, actor(context.Background()))
	ctx := ctxWithUser(context.Background(), &models.User{Email: testAdminEmail})
	assert.Equal(t, testAdminEmail, actor(ctx))
}
