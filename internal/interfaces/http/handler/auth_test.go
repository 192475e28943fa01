package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/application/identity"
	"github.com/shopmgmt/backend/internal/infrastructure/auth"
	"github.com/shopmgmt/backend/internal/infrastructure/config"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence"
	"github.com/shopmgmt/backend/internal/interfaces/http/middleware"
	"github.com/shopmgmt/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-32-characters",
		RefreshSecret:          "handler-test-refresh-secret-32-chr",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "shop-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	h := NewAuthHandler(identity.NewAuthService(persistence.NewGormUserRepository(db), jwtService, blacklist, zap.NewNop()))

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist

	r := testutil.NewEngine(middleware.RequestID(), middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	r.POST("/api/v1/auth/refresh", h.RefreshToken)
	r.POST("/api/v1/auth/logout", h.Logout)
	r.GET("/api/v1/auth/me", h.GetCurrentUser)
	return r
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

var registration = map[string]any{
	"email":     "owner@corner-shop.example",
	"password":  "s3cret-pass",
	"name":      "Dana",
	"shop_name": "Corner Shop",
}

func TestAuthHandler_Flow(t *testing.T) {
	r := newAuthRouter(t)

	w := testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/register", registration, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := testutil.DecodeData[LoginResponse](t, w)
	assert.Equal(t, registered.User.ID, registered.User.TenantID)
	assert.Equal(t, "Corner Shop", registered.User.ShopName)
	assert.Equal(t, "Bearer", registered.Token.TokenType)

	w = testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/register", registration, nil)
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "EMAIL_EXISTS")

	w = testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    registration["email"],
		"password": "wrong-password",
	}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	w = testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    registration["email"],
		"password": registration["password"],
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := testutil.DecodeData[LoginResponse](t, w)
	require.NotNil(t, login.User.LastLoginAt)

	w = testutil.PerformRequest(t, r, http.MethodGet, "/api/v1/auth/me", nil, bearer(login.Token.AccessToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, registration["email"], testutil.DecodeData[AuthUserResponse](t, w).Email)

	w = testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/refresh", map[string]any{"refresh_token": login.Token.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	refreshed := testutil.DecodeData[RefreshTokenResponse](t, w)
	assert.NotEqual(t, login.Token.RefreshToken, refreshed.Token.RefreshToken)

	// The refresh token is single use
	w = testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/refresh", map[string]any{"refresh_token": login.Token.RefreshToken}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_INVALID")

	w = testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/logout", nil, bearer(refreshed.Token.AccessToken))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.PerformRequest(t, r, http.MethodGet, "/api/v1/auth/me", nil, bearer(refreshed.Token.AccessToken))
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_REVOKED")

	w = testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/refresh", map[string]any{"refresh_token": refreshed.Token.RefreshToken}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_INVALID")
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	r := newAuthRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing shop name", map[string]any{"email": "a@b.example", "password": "longenough", "name": "A"}},
		{"short password", map[string]any{"email": "a@b.example", "password": "short", "name": "A", "shop_name": "S"}},
		{"bad email", map[string]any{"email": "nope", "password": "longenough", "name": "A", "shop_name": "S"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.PerformRequest(t, r, http.MethodPost, "/api/v1/auth/register", tt.body, nil)
			testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
		})
	}
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	r := newAuthRouter(t)

	w := testutil.PerformRequest(t, r, http.MethodGet, "/api/v1/auth/me", nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
}
