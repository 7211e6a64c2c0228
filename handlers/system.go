package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Wizi44/PNodes/models"
)

// GetHealth is the liveness endpoint.
func (h *Handler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"cache_mode": h.Cache.Mode(),
	})
}

// GetStatus returns the latest network summary, preferring the cached
// payload from the most recent poll cycle.
func (h *Handler) GetStatus(c echo.Context) error {
	var summary models.NetworkSummary
	if h.Cache.Get("network:summary", &summary) {
		return c.JSON(http.StatusOK, summary)
	}
	return c.JSON(http.StatusOK, h.Engine.Summary())
}
