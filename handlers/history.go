package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Wizi44/PNodes/services"
)

type HistoryHandlers struct {
	history *services.HistoryService
}

func NewHistoryHandlers(history *services.HistoryService) *HistoryHandlers {
	return &HistoryHandlers{history: history}
}

// GetNetworkHistory returns archived network summaries.
// Query param: hours (default 24).
func (hh *HistoryHandlers) GetNetworkHistory(c echo.Context) error {
	hours, _ := strconv.Atoi(c.QueryParam("hours"))
	return c.JSON(http.StatusOK, hh.history.GetNetworkHistory(hours))
}

// GetNodeHistory returns archived entries for one node.
func (hh *HistoryHandlers) GetNodeHistory(c echo.Context) error {
	hours, _ := strconv.Atoi(c.QueryParam("hours"))
	return c.JSON(http.StatusOK, hh.history.GetNodeHistory(c.Param("id"), hours))
}
