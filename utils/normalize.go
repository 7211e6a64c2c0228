package utils

import (
	"strings"
	"time"

	"github.com/Wizi44/PNodes/models"
)

// Upstream rosters arrive with inconsistent key spellings depending on
// which collector produced them. Normalization happens once at ingestion;
// everything downstream touches only the canonical Node fields.
var (
	idKeys           = []string{"id", "node_id", "nodeId", "pubkey"}
	ipKeys           = []string{"ip", "address", "host"}
	latKeys          = []string{"lat", "latitude"}
	lonKeys          = []string{"lon", "lng", "longitude"}
	statusKeys       = []string{"status", "state", "lifecycle"}
	storageKeys      = []string{"storage_used", "storageUsed", "used_bytes", "usedBytes"}
	versionKeys      = []string{"version", "ver", "software_version"}
	lastSeenKeys     = []string{"last_seen", "lastSeen", "last_seen_at", "lastSeenAt"}
	peersKeys        = []string{"peers_seen", "peersSeen", "peer_count", "peerCount"}
	diversityKeys    = []string{"peer_diversity", "peerDiversity", "diversity"}
	latencyKeys      = []string{"latency_ms", "latencyMs", "response_time", "responseTime"}
	uptimeKeys       = []string{"uptime_ratio", "uptimeRatio", "uptime"}
	availabilityKeys = []string{"data_availability", "dataAvailability", "availability"}
	freshnessKeys    = []string{"version_freshness", "versionFreshness"}
)

// NormalizeRecord maps one raw roster record onto a canonical Node.
// Unknown fields are ignored; malformed optional fields are treated as
// absent so that a partially-shaped record never aborts processing.
func NormalizeRecord(raw map[string]interface{}) models.Node {
	n := models.Node{
		ID:          pickString(raw, idKeys),
		IP:          pickString(raw, ipKeys),
		Version:     pickString(raw, versionKeys),
		Status:      normalizeStatus(pickString(raw, statusKeys)),
		StorageUsed: pickInt64(raw, storageKeys),
	}

	if v, ok := pickFloat(raw, latKeys); ok {
		n.Lat = v
	}
	if v, ok := pickFloat(raw, lonKeys); ok {
		n.Lon = v
	}
	if ts, ok := pickTime(raw, lastSeenKeys); ok {
		n.LastSeen = ts
	}

	if v, ok := pickFloat(raw, peersKeys); ok && v >= 0 {
		n.PeersSeen = models.IntPtr(int(v))
	}
	if v, ok := pickFloat(raw, diversityKeys); ok {
		n.PeerDiversity = models.Float64Ptr(Clamp01(v))
	}
	if v, ok := pickFloat(raw, latencyKeys); ok && v >= 0 {
		n.LatencyMS = models.Float64Ptr(v)
	}
	if v, ok := pickFloat(raw, uptimeKeys); ok {
		n.UptimeRatio = models.Float64Ptr(Clamp01(v))
	}
	if v, ok := pickFloat(raw, availabilityKeys); ok {
		n.DataAvailability = models.Float64Ptr(Clamp01(v))
	}
	if v, ok := pickFloat(raw, freshnessKeys); ok {
		n.VersionFreshness = models.Float64Ptr(Clamp01(v))
	}

	return n
}

func normalizeStatus(s string) models.NodeStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online", "up", "active":
		return models.StatusOnline
	case "offline", "down", "dead":
		return models.StatusOffline
	default:
		return models.StatusUnknown
	}
}

func pickString(raw map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func pickFloat(raw map[string]interface{}, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case float32:
			return float64(t), true
		case int:
			return float64(t), true
		case int64:
			return float64(t), true
		}
	}
	return 0, false
}

func pickInt64(raw map[string]interface{}, keys []string) int64 {
	if v, ok := pickFloat(raw, keys); ok && v > 0 {
		return int64(v)
	}
	return 0
}

// pickTime accepts RFC3339 strings and unix timestamps (seconds or
// milliseconds). An unparseable value is left zero, which scoring treats
// as maximally stale.
func pickTime(raw map[string]interface{}, keys []string) (time.Time, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if parsed, err := time.Parse(time.RFC3339, t); err == nil {
				return parsed, true
			}
		case float64:
			if t > 1e12 { // milliseconds
				return time.UnixMilli(int64(t)), true
			}
			if t > 0 {
				return time.Unix(int64(t), 0), true
			}
		}
	}
	return time.Time{}, false
}
