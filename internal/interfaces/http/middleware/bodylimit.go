package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopmgmt/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared body is larger than maxBytes
// and caps streamed bodies at the same size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
