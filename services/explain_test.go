package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wizi44/PNodes/models"
)

func TestExplainWhyDeduplicatesAndOrders(t *testing.T) {
	node := liveNode("n1", models.StatusOffline, 10, 20, time.Now())

	// The health reasons repeat the anomaly tag's narrative source; the
	// output must still carry each line once, in insertion order.
	health := &models.HealthResult{
		Score: 0.2,
		Tier:  models.HealthBad,
		Reasons: []string{
			"Not seen in recent gossip window",
			"Not seen in recent gossip window",
			"Uptime below healthy range",
		},
	}
	anomalies := make(models.AnomalySet)
	anomalies.Add("n1", models.AnomalySuddenDrop)

	expl := Explain(&node, health, nil, anomalies, nil, nil)

	assert.Equal(t, "n1", expl.NodeID)
	require.NotEmpty(t, expl.Why)
	assert.Equal(t, "Node is currently offline according to the latest roster.", expl.Why[0])

	counts := make(map[string]int)
	for _, why := range expl.Why {
		counts[why]++
	}
	for why, n := range counts {
		assert.Equal(t, 1, n, "duplicated line: %q", why)
	}
	assert.Contains(t, expl.Why, "Node abruptly dropped out of gossip since the previous snapshot.")
	assert.Contains(t, expl.Why, "Uptime below healthy range")
}

func TestExplainStorageOutlier(t *testing.T) {
	now := time.Now()
	heavy := liveNode("heavy", models.StatusOnline, 0, 0, now)
	heavy.StorageUsed = 1000
	light := liveNode("light", models.StatusOnline, 0, 0, now)
	light.StorageUsed = 100
	roster := []models.Node{heavy, light}

	expl := Explain(&heavy, nil, nil, make(models.AnomalySet), nil, roster)

	found := false
	for _, why := range expl.Why {
		if strings.Contains(why, "above the network average") {
			found = true
		}
	}
	assert.True(t, found, "expected a storage outlier line, got %v", expl.Why)

	// The lighter node gets no such line.
	expl = Explain(&light, nil, nil, make(models.AnomalySet), nil, roster)
	for _, why := range expl.Why {
		assert.False(t, strings.Contains(why, "above the network average"))
	}
}

func TestPredictionsDrift(t *testing.T) {
	now := time.Now()

	node := liveNode("drifter", models.StatusOnline, 10, 20, now)
	// Keep the telemetry rules quiet so only the trend rule can fire.
	node.UptimeRatio = models.Float64Ptr(0.95)
	node.DataAvailability = models.Float64Ptr(0.95)

	// Fixed last-seen against advancing snapshot timestamps: the node's
	// staleness grows by 3x across three appearances.
	lastSeen := now.Add(-3 * time.Minute)
	window := make([]models.Snapshot, 0, driftMinPoints)
	for i := 0; i < driftMinPoints; i++ {
		n := node
		n.LastSeen = lastSeen
		ts := lastSeen.Add(time.Duration(i+1) * time.Minute)
		window = append(window, models.Snapshot{Timestamp: ts, Nodes: []models.Node{n}})
	}

	preds := predictions(&node, window)
	require.Len(t, preds, 1)
	assert.Equal(t, models.ConfidenceMedium, preds[0].Confidence)
	assert.Contains(t, preds[0].Message, "drifting out of gossip")
}

func TestPredictionsDriftNeedsEnoughPoints(t *testing.T) {
	now := time.Now()
	node := liveNode("drifter", models.StatusOnline, 10, 20, now)
	node.UptimeRatio = models.Float64Ptr(0.95)
	node.DataAvailability = models.Float64Ptr(0.95)

	window := []models.Snapshot{
		{Timestamp: now.Add(-time.Minute), Nodes: []models.Node{node}},
		{Timestamp: now, Nodes: []models.Node{node}},
	}

	assert.Empty(t, predictions(&node, window))
}

func TestPredictionsLowUptime(t *testing.T) {
	node := liveNode("flaky", models.StatusOnline, 0, 0, time.Now())
	node.UptimeRatio = models.Float64Ptr(0.5)
	node.DataAvailability = models.Float64Ptr(0.95)

	preds := predictions(&node, nil)
	require.Len(t, preds, 1)
	assert.Equal(t, models.ConfidenceHigh, preds[0].Confidence)
	assert.Contains(t, preds[0].Message, "Low uptime")
}

func TestPredictionsLowAvailability(t *testing.T) {
	node := liveNode("starved", models.StatusOnline, 0, 0, time.Now())
	node.UptimeRatio = models.Float64Ptr(0.95)
	node.DataAvailability = models.Float64Ptr(0.4)

	preds := predictions(&node, nil)
	require.Len(t, preds, 1)
	assert.Equal(t, models.ConfidenceMedium, preds[0].Confidence)
}

func TestPredictionsIndependent(t *testing.T) {
	node := liveNode("failing", models.StatusOnline, 0, 0, time.Now())
	node.UptimeRatio = models.Float64Ptr(0.4)
	node.DataAvailability = models.Float64Ptr(0.4)

	preds := predictions(&node, nil)
	assert.Len(t, preds, 2)
}

func TestPredictionsHealthyNodeHasNone(t *testing.T) {
	node := liveNode("solid", models.StatusOnline, 0, 0, time.Now())
	node.UptimeRatio = models.Float64Ptr(0.95)
	node.DataAvailability = models.Float64Ptr(0.95)

	assert.Empty(t, predictions(&node, nil))
}
