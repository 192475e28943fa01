package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client's retry key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency rejects a repeated Idempotency-Key from the same shop with
// 409 DUPLICATE_REQUEST while the key is remembered. Keys are only kept for
// requests that succeed; a failed request releases its key so the client can
// retry. Requests without the header pass through untouched. Must run after
// the JWT middleware.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if !cfg.Enabled || store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		storeKey := "sale:" + c.GetString(JWTTenantIDKey) + ":" + key
		isNew, err := store.MarkProcessed(c.Request.Context(), storeKey, cfg.TTL)
		if err != nil {
			// Processing anyway risks a duplicate sale, refusing would block the till
			log.Warn("failed to check idempotency key, processing anyway",
				zap.String("idempotency_key", key),
				zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			abortWithError(c, dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already accepted")
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < http.StatusOK || status >= http.StatusMultipleChoices {
			// The request context may already be cancelled
			if err := store.Release(context.WithoutCancel(c.Request.Context()), storeKey); err != nil {
				log.Warn("failed to release idempotency key",
					zap.String("idempotency_key", key),
					zap.Error(err))
			}
		}
	}
}
