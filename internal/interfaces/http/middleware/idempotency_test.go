package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (brokenStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (brokenStore) Release(context.Context, string) error { return nil }
func (brokenStore) Close() error { return nil }

func newIdempotentRouter(store shared.IdempotencyStore, status *int) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, c.GetHeader("X-Test-Shop"))
		c.Next()
	})
	router.POST("/api/v1/sales",
		Idempotency(store, shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}, nil),
		func(c *gin.Context) { c.Status(*status) })
	return router
}

func postSale(router *gin.Engine, shop, key string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", nil)
	req.Header.Set("X-Test-Shop", shop)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewRedisIdempotencyStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")

	status := http.StatusCreated
	router := newIdempotentRouter(store, &status)

	assert.Equal(t, http.StatusCreated, postSale(router, "shop-a", "till1-0001"))
	assert.Equal(t, http.StatusConflict, postSale(router, "shop-a", "till1-0001"))
	// same key from another shop is unrelated
	assert.Equal(t, http.StatusCreated, postSale(router, "shop-b", "till1-0001"))
	// no key, no protection
	assert.Equal(t, http.StatusCreated, postSale(router, "shop-a", ""))
	assert.Equal(t, http.StatusCreated, postSale(router, "shop-a", ""))
}

func TestIdempotency_ReleasesOnFailure(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	status := http.StatusBadRequest
	router := newIdempotentRouter(store, &status)

	assert.Equal(t, http.StatusBadRequest, postSale(router, "shop-a", "k-1"))
	processed, err := store.IsProcessed(context.Background(), "sale:shop-a:k-1")
	require.NoError(t, err)
	assert.False(t, processed)

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, postSale(router, "shop-a", "k-1"))
	assert.Equal(t, http.StatusConflict, postSale(router, "shop-a", "k-1"))
}

func TestIdempotency_StoreFailureFailsOpen(t *testing.T) {
	status := http.StatusCreated
	router := newIdempotentRouter(brokenStore{}, &status)

	assert.Equal(t, http.StatusCreated, postSale(router, "shop-a", "k-1"))
	assert.Equal(t, http.StatusCreated, postSale(router, "shop-a", "k-1"))
}
