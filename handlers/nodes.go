package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Wizi44/PNodes/config"
	"github.com/Wizi44/PNodes/models"
	"github.com/Wizi44/PNodes/services"
)

type Handler struct {
	Cfg    *config.Config
	Engine *services.Engine
	Cache  *services.CacheService
}

func NewHandler(cfg *config.Config, engine *services.Engine, cache *services.CacheService) *Handler {
	return &Handler{
		Cfg:    cfg,
		Engine: engine,
		Cache:  cache,
	}
}

// NodeView joins a node's roster record with its derived signals.
type NodeView struct {
	Node       models.Node             `json:"node"`
	Health     models.HealthResult     `json:"health"`
	Reputation models.ReputationResult `json:"reputation"`
	Anomalies  []models.AnomalyTag     `json:"anomalies,omitempty"`
}

type NodesResponse struct {
	Nodes      []NodeView `json:"nodes"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

// GetNodes returns a paginated list of nodes with their derived signals.
// Query params: page, limit, status, sort (health|reputation|storage),
// order (asc|desc).
func (h *Handler) GetNodes(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	statusFilter := c.QueryParam("status")
	sortField := c.QueryParam("sort")
	sortOrder := c.QueryParam("order")
	if sortOrder == "" {
		sortOrder = "desc"
	}

	roster := h.Engine.Roster()
	health := h.Engine.Health()
	reputation := h.Engine.Reputation()
	anomalies := h.Engine.Anomalies()

	views := make([]NodeView, 0, len(roster))
	for _, node := range roster {
		if statusFilter != "" && string(node.Status) != statusFilter {
			continue
		}
		views = append(views, NodeView{
			Node:       node,
			Health:     health[node.ID],
			Reputation: reputation[node.ID],
			Anomalies:  anomalies[node.ID],
		})
	}

	sortViews(views, sortField, sortOrder)

	total := len(views)
	startIdx := (page - 1) * limit
	if startIdx > total {
		startIdx = total
	}
	endIdx := startIdx + limit
	if endIdx > total {
		endIdx = total
	}

	return c.JSON(http.StatusOK, NodesResponse{
		Nodes:      views[startIdx:endIdx],
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	})
}

// GetNode returns one node's full derived view.
func (h *Handler) GetNode(c echo.Context) error {
	id := c.Param("id")

	for _, node := range h.Engine.Roster() {
		if node.ID == id {
			health := h.Engine.Health()
			reputation := h.Engine.Reputation()
			anomalies := h.Engine.Anomalies()
			return c.JSON(http.StatusOK, NodeView{
				Node:       node,
				Health:     health[id],
				Reputation: reputation[id],
				Anomalies:  anomalies[id],
			})
		}
	}

	return c.JSON(http.StatusNotFound, map[string]string{"error": "node not found"})
}

func sortViews(views []NodeView, field, order string) {
	less := func(i, j int) bool {
		switch field {
		case "reputation":
			return views[i].Reputation.Score < views[j].Reputation.Score
		case "storage":
			return views[i].Node.StorageUsed < views[j].Node.StorageUsed
		default:
			return views[i].Health.Score < views[j].Health.Score
		}
	}

	if order == "asc" {
		sort.SliceStable(views, less)
	} else {
		sort.SliceStable(views, func(i, j int) bool { return less(j, i) })
	}
}
