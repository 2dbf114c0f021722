package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/resellkit/listing-scout/internal/store"
)

// WatchlistRunner triggers a watchlist analysis run. Satisfied by
// *engine.Scheduler.
type WatchlistRunner interface {
	RunWatchlist(ctx context.Context) error
}

// WatchlistHandler handles watchlist membership and manual runs.
type WatchlistHandler struct {
	store  store.Store
	runner WatchlistRunner
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(s store.Store, runner WatchlistRunner) *WatchlistHandler {
	return &WatchlistHandler{store: s, runner: runner}
}

// List handles GET /api/v1/watchlist.
func (h *WatchlistHandler) List(c echo.Context) error {
	asins, err := h.store.ListWatchlist(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "listing watchlist: " + err.Error(),
		})
	}

	if asins == nil {
		asins = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"asins": asins})
}

type addWatchlistRequest struct {
	ASIN string `json:"asin" example:"B0DRILLKIT"`
}

// Add handles POST /api/v1/watchlist.
func (h *WatchlistHandler) Add(c echo.Context) error {
	var req addWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if req.ASIN == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "asin is required",
		})
	}

	if err := h.store.AddWatchlistItem(c.Request().Context(), req.ASIN); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "adding watchlist item: " + err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "added"})
}

// Remove handles DELETE /api/v1/watchlist/:asin.
func (h *WatchlistHandler) Remove(c echo.Context) error {
	asin := c.Param("asin")

	if err := h.store.RemoveWatchlistItem(c.Request().Context(), asin); err != nil {
		if store.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "watchlist item not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "removing watchlist item: " + err.Error(),
		})
	}

	return c.NoContent(http.StatusNoContent)
}

// Run handles POST /api/v1/watchlist/run. It triggers the same analysis
// pass the scheduler performs on its interval.
func (h *WatchlistHandler) Run(c echo.Context) error {
	if err := h.runner.RunWatchlist(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "watchlist run failed: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "completed"})
}
