package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// connectivityChecker is implemented by the store and retrieval adapters.
type connectivityChecker interface {
	HealthCheck(ctx context.Context) bool
}

// HealthHandler reports dependency connectivity for operational dashboards.
// The core logic never consults these booleans; it degrades on its own.
type HealthHandler struct {
	Store    connectivityChecker
	Searcher connectivityChecker
}

func (h *HealthHandler) health(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "running",
		"redis":     h.Store.HealthCheck(ctx),
		"retrieval": h.Searcher.HealthCheck(ctx),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
