package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetAnomalies returns the current anomaly tags per node.
func (h *Handler) GetAnomalies(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.Anomalies())
}

// GetPartition returns the current network-wide partition verdict.
func (h *Handler) GetPartition(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.Verdict())
}

// GetRegions returns per-cell online/offline counts over the current
// roster.
func (h *Handler) GetRegions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.Regions())
}

// GetExplain returns the narrative justification and predictions for one
// node.
func (h *Handler) GetExplain(c echo.Context) error {
	id := c.Param("id")

	explanation, ok := h.Engine.Explain(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "node not found"})
	}

	return c.JSON(http.StatusOK, explanation)
}
