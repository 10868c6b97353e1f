package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/username/alarm-api/internal/apperr"
)

// BodyLimit caps the request body before the handler reads it. Reads past the
// limit fail, so multipart parsing stops early instead of buffering the excess.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			apperr.Respond(c, nil, apperr.BadRequest("request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
