package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dimitrije/teamup-api/internal/logger"
	"github.com/m1z23r/drift/pkg/drift"
)

// Pinger is satisfied by the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *drift.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("health check failed")
		_ = c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
