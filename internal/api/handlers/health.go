// Package handlers implements HTTP handlers for the listing-scout API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resellkit/listing-scout/internal/store"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store store.Store
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

func probeStatus(c echo.Context, code int, status string) error {
	return c.JSON(code, map[string]string{"status": status})
}

// Healthz answers 200 whenever the process is up.
func (*HealthHandler) Healthz(c echo.Context) error {
	return probeStatus(c, http.StatusOK, "ok")
}

// Readyz answers 200 when the database responds to a ping, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return probeStatus(c, http.StatusServiceUnavailable, "unavailable")
	}
	return probeStatus(c, http.StatusOK, "ready")
}
