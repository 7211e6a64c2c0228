package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Wizi44/PNodes/services"
)

// GetTimeTravel resolves a historical (or synthetic) roster view.
// Query params: window (1h|24h|7d, default 1h), index (default last).
func (h *Handler) GetTimeTravel(c echo.Context) error {
	window := services.TimeWindow(c.QueryParam("window"))
	switch window {
	case services.WindowHour, services.WindowDay, services.WindowWeek:
	case "":
		window = services.WindowHour
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "window must be 1h, 24h or 7d"})
	}

	index := services.SyntheticSteps - 1
	if raw := c.QueryParam("index"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			index = parsed
		}
	}

	result, ok := h.Engine.TimeTravel(window, index)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no roster data available yet"})
	}

	return c.JSON(http.StatusOK, result)
}
