// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
// *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves /healthz.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a HealthHandler that pings db on every check.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health answers 200 when the database responds and 503 otherwise.
// HEAD requests get the status code only. Responses are never cached.
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	status, body := http.StatusOK, gin.H{"status": "ok", "database": "ok"}
	if err := h.db.PingContext(ctx); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("health check: database ping failed")
		status, body = http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "unreachable"}
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}
