package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wizi44/PNodes/config"
	"github.com/Wizi44/PNodes/models"
	"github.com/Wizi44/PNodes/services"
	"github.com/Wizi44/PNodes/utils"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{
		Cache: config.CacheConfig{TTL: 30},
	}
	engine := services.NewEngine(&utils.DefaultVersionPolicy)
	cache := services.NewCacheService(cfg)
	t.Cleanup(cache.Stop)

	now := time.Now()
	engine.Ingest([]models.Node{
		{
			ID:               "alpha",
			Status:           models.StatusOnline,
			Lat:              10,
			Lon:              20,
			StorageUsed:      200,
			LastSeen:         now.Add(-30 * time.Second),
			PeersSeen:        models.IntPtr(10),
			DataAvailability: models.Float64Ptr(0.95),
			UptimeRatio:      models.Float64Ptr(0.95),
		},
		{
			ID:          "beta",
			Status:      models.StatusOffline,
			Lat:         50,
			Lon:         10,
			StorageUsed: 50,
			LastSeen:    now.Add(-20 * time.Minute),
		},
	}, now)

	return NewHandler(cfg, engine, cache)
}

func doRequest(t *testing.T, handler echo.HandlerFunc, target string, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}

	require.NoError(t, handler(c))
	return rec
}

func TestGetNodes(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h.GetNodes, "/api/nodes")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp NodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.TotalCount)
	require.Len(t, resp.Nodes, 2)

	// Default sort is health descending; the healthy node comes first.
	assert.Equal(t, "alpha", resp.Nodes[0].Node.ID)
}

func TestGetNodesStatusFilter(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h.GetNodes, "/api/nodes?status=offline")

	var resp NodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Nodes, 1)
	assert.Equal(t, "beta", resp.Nodes[0].Node.ID)
}

func TestGetNodesPagination(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h.GetNodes, "/api/nodes?page=2&limit=1")

	var resp NodesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.TotalCount)
	assert.Equal(t, 2, resp.Page)
	require.Len(t, resp.Nodes, 1)
}

func TestGetNodeNotFound(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h.GetNode, "/api/nodes/missing", "id", "missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetNodeFound(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h.GetNode, "/api/nodes/alpha", "id", "alpha")

	require.Equal(t, http.StatusOK, rec.Code)

	var view NodeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "alpha", view.Node.ID)
	assert.Greater(t, view.Health.Score, 0.0)
}

func TestGetExplain(t *testing.T) {
	h := newTestHandler(t)
	rec := doRequest(t, h.GetExplain, "/api/nodes/beta/explain", "id", "beta")

	require.Equal(t, http.StatusOK, rec.Code)

	var expl models.Explanation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &expl))
	assert.Equal(t, "beta", expl.NodeID)
	assert.NotEmpty(t, expl.Why)
}

func TestGetPartitionAndRegions(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h.GetPartition, "/api/partition")
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict models.PartitionVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))

	rec = doRequest(t, h.GetRegions, "/api/regions")
	require.Equal(t, http.StatusOK, rec.Code)

	var regions map[string]models.RegionBucket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regions))
	assert.Contains(t, regions, "10:20")
	assert.Contains(t, regions, "50:10")
}

func TestGetTimeTravelValidation(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h.GetTimeTravel, "/api/timetravel?window=2h")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h.GetTimeTravel, "/api/timetravel?window=24h&index=0")
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.TimeTravelResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Index)
}

func TestGetHealthAndStatus(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h.GetHealth, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "in-memory")

	rec = doRequest(t, h.GetStatus, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.NetworkSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalNodes)
}
