package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const AnyOrigin = "*"

// CORS answers cross-origin requests for allowedOrigin ("*" when empty).
// Credentials are only allowed for an explicit origin. Preflight requests
// stop here with 204.
func CORS(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = AnyOrigin
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowedOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, HEAD, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+HeaderRequestID)
		h.Set("Access-Control-Expose-Headers", "Content-Disposition, Retry-After, "+HeaderRequestID)
		h.Set("Access-Control-Max-Age", "86400")
		if allowedOrigin != AnyOrigin {
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
