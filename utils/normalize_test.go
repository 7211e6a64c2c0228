package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wizi44/PNodes/models"
)

func TestNormalizeRecordCanonicalKeys(t *testing.T) {
	lastSeen := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)

	raw := map[string]interface{}{
		"id":                "node-1",
		"lat":               48.2,
		"lon":               16.3,
		"status":            "online",
		"storage_used":      float64(1 << 30),
		"version":           "0.8.0",
		"last_seen":         lastSeen.Format(time.RFC3339),
		"peers_seen":        float64(12),
		"peer_diversity":    0.7,
		"latency_ms":        float64(120),
		"uptime_ratio":      0.95,
		"data_availability": 0.9,
	}

	n := NormalizeRecord(raw)

	assert.Equal(t, "node-1", n.ID)
	assert.Equal(t, models.StatusOnline, n.Status)
	assert.Equal(t, int64(1<<30), n.StorageUsed)
	assert.True(t, n.LastSeen.Equal(lastSeen))
	require.NotNil(t, n.PeersSeen)
	assert.Equal(t, 12, *n.PeersSeen)
	require.NotNil(t, n.LatencyMS)
	assert.Equal(t, 120.0, *n.LatencyMS)
}

func TestNormalizeRecordAlternateSpellings(t *testing.T) {
	raw := map[string]interface{}{
		"nodeId":       "node-2",
		"latitude":     -33.9,
		"lng":          18.4,
		"state":        "UP",
		"usedBytes":    float64(42),
		"lastSeen":     float64(1700000000), // unix seconds
		"peerCount":    float64(3),
		"responseTime": float64(90),
		"uptime":       0.8,
		"availability": 0.85,
	}

	n := NormalizeRecord(raw)

	assert.Equal(t, "node-2", n.ID)
	assert.Equal(t, models.StatusOnline, n.Status)
	assert.Equal(t, -33.9, n.Lat)
	assert.Equal(t, 18.4, n.Lon)
	assert.Equal(t, int64(42), n.StorageUsed)
	assert.Equal(t, time.Unix(1700000000, 0).Unix(), n.LastSeen.Unix())
	require.NotNil(t, n.PeersSeen)
	assert.Equal(t, 3, *n.PeersSeen)
}

func TestNormalizeRecordMissingTelemetryStaysAbsent(t *testing.T) {
	n := NormalizeRecord(map[string]interface{}{"id": "node-3", "status": "offline"})

	assert.Nil(t, n.PeersSeen)
	assert.Nil(t, n.PeerDiversity)
	assert.Nil(t, n.LatencyMS)
	assert.Nil(t, n.UptimeRatio)
	assert.Nil(t, n.DataAvailability)

	// Defaults apply at read time, not at normalization.
	assert.Equal(t, models.DefaultPeersSeen, n.PeersSeenValue())
	assert.Equal(t, models.DefaultUptimeRatio, n.UptimeRatioValue())
}

func TestNormalizeRecordBadTimestampIsMaximallyStale(t *testing.T) {
	n := NormalizeRecord(map[string]interface{}{
		"id":        "node-4",
		"last_seen": "not-a-timestamp",
	})

	assert.True(t, n.LastSeen.IsZero())
	assert.Greater(t, n.AgeAt(time.Now()), 24*365*time.Hour)
}

func TestNormalizeRecordUnknownStatusFallsBack(t *testing.T) {
	n := NormalizeRecord(map[string]interface{}{"id": "node-5", "status": "weird"})
	assert.Equal(t, models.StatusUnknown, n.Status)
}
