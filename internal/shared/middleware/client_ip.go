package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

const ContextKeyClientIP = "client_ip"

// ClientIPMiddleware resolves the client address once per request so the
// rate limiter and the request log agree on it. Forwarded headers are only
// honoured from the proxies trusted by the engine.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyClientIP, resolveClientIP(c))
		c.Next()
	}
}

// ClientIP returns the address stored by ClientIPMiddleware, resolving it
// on the spot when the middleware did not run.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextKeyClientIP); ip != "" {
		return ip
	}
	return resolveClientIP(c)
}

func resolveClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if net.ParseIP(ip) != nil {
		return ip
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return "unknown"
}
