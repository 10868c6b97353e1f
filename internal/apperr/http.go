package apperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Respond writes err as a JSON error body and aborts the chain.
// Errors outside the taxonomy become a generic 500; the cause is only logged.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	ae, ok := As(err)
	if !ok || ae.Code == CodeInternal {
		if log != nil {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   CodeInternal,
			"message": "internal server error",
		})
		return
	}

	body := gin.H{
		"error":   ae.Code,
		"message": ae.Message,
	}
	if len(ae.Fields) > 0 {
		body["details"] = ae.Fields
	}
	c.AbortWithStatusJSON(ae.Status(), body)
}
