package middleware

import (
	"github.com/go-authgate/eventgate/internal/util"

	"github.com/gin-gonic/gin"
)

// RequestInfoMiddleware stores the client IP and request metadata in the
// request context so services can attach them to audit entries.
func RequestInfoMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Gin's ClientIP() handles X-Forwarded-For and other headers
		ip := c.ClientIP()
		c.Set("client_ip", ip)

		ctx := util.WithRequestInfo(c.Request.Context(), util.RequestInfo{
			IP:        ip,
			UserAgent: c.Request.UserAgent(),
			Path:      c.Request.URL.Path,
			Method:    c.Request.Method,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
