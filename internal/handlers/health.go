package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker is a dependency probed by /health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports database health, plus any optional components.
type HealthHandler struct {
	database   HealthChecker
	components map[string]HealthChecker
}

func NewHealthHandler(database HealthChecker, components map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{database: database, components: components}
}

// Health returns 503 when the database is down. Failing optional components
// are reported but leave the status at 200.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.database.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
			"error":    err.Error(),
		})
		return
	}

	body := gin.H{
		"status":   "healthy",
		"database": "connected",
	}
	for name, component := range h.components {
		if err := component.Health(ctx); err != nil {
			body[name] = "degraded: " + err.Error()
			continue
		}
		body[name] = "ok"
	}

	c.JSON(http.StatusOK, body)
}
