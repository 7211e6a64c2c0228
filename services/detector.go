package services

import (
	"sort"
	"strings"
	"time"

	"github.com/Wizi44/PNodes/models"
)

// Detection thresholds.
const (
	blackHoleMaxAge      = 600 * time.Second
	blackHoleMinPeers    = 2
	blackHoleMinAvail    = 0.5
	isolatedMinNodes     = 5
	isolatedOfflineRatio = 0.6
	suddenDropMassFrac   = 0.2
	versionSkewFrac      = 0.5
)

// DetectionResult bundles per-node anomaly tags with the network-wide
// partition verdict computed from the same snapshot pair.
type DetectionResult struct {
	Anomalies models.AnomalySet
	Verdict   models.PartitionVerdict
}

// Detect runs the failure and partition rules over a consistent
// (previous, current) snapshot pair. prev may be nil (a fresh history),
// which disables sudden-drop detection only; all other rules run on the
// current roster alone. An empty current roster yields no anomalies and
// no suspicion.
func Detect(prev, curr *models.Snapshot) DetectionResult {
	result := DetectionResult{Anomalies: make(models.AnomalySet)}

	if curr == nil || len(curr.Nodes) == 0 {
		return result
	}

	roster := curr.Nodes
	regions := AggregateRegions(roster)
	isolatedKeys := isolatedRegions(regions)

	// sudden_drop: online in the previous snapshot, now gone or offline.
	if prev != nil {
		for i := range prev.Nodes {
			was := &prev.Nodes[i]
			if was.Status != models.StatusOnline {
				continue
			}
			now, present := curr.NodeByID(was.ID)
			if !present || now.Status == models.StatusOffline {
				result.Anomalies.Add(was.ID, models.AnomalySuddenDrop)
			}
		}
	}

	onlineCount := 0
	offlineCount := 0

	for i := range roster {
		node := &roster[i]

		switch node.Status {
		case models.StatusOnline:
			onlineCount++
		case models.StatusOffline:
			offlineCount++
		}

		// isolated: every node in a mostly-offline region carries the tag.
		if _, ok := isolatedKeys[RegionKey(node.Lat, node.Lon)]; ok {
			result.Anomalies.Add(node.ID, models.AnomalyIsolated)
		}

		// black_hole: present in the roster but effectively not
		// participating.
		if node.AgeAt(curr.Timestamp) > blackHoleMaxAge ||
			node.PeersSeenValue() < blackHoleMinPeers ||
			node.DataAvailabilityValue() < blackHoleMinAvail {
			result.Anomalies.Add(node.ID, models.AnomalyBlackHole)
		}
	}

	droppedCount := 0
	for id := range result.Anomalies {
		if result.Anomalies.Has(id, models.AnomalySuddenDrop) {
			droppedCount++
		}
	}

	result.Verdict = partitionVerdict(roster, isolatedKeys, droppedCount, onlineCount, offlineCount)
	return result
}

func isolatedRegions(regions map[string]*models.RegionBucket) map[string]struct{} {
	keys := make(map[string]struct{})
	for key, bucket := range regions {
		if bucket.Total >= isolatedMinNodes &&
			float64(bucket.Offline)/float64(bucket.Total) >= isolatedOfflineRatio {
			keys[key] = struct{}{}
		}
	}
	return keys
}

// partitionVerdict applies the global rules in fixed priority order; the
// first match wins and lower-priority reasons are never consulted.
func partitionVerdict(roster []models.Node, isolatedKeys map[string]struct{}, dropped, online, offline int) models.PartitionVerdict {
	verdict := models.PartitionVerdict{}

	switch {
	case len(isolatedKeys) > 0:
		keys := make([]string, 0, len(isolatedKeys))
		for key := range isolatedKeys {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		verdict.Suspected = true
		verdict.Reason = "Region outage or isolation in " + strings.Join(keys, ", ")

	case float64(dropped)/float64(len(roster)) > suddenDropMassFrac:
		verdict.Suspected = true
		verdict.Reason = "Large set of peers dropped from gossip abruptly"

	case offline > online:
		verdict.Suspected = true
		verdict.Reason = "Majority of pNodes appear offline or unreachable"
	}

	// Guard for future rules that set suspicion without attaching a
	// reason. The rules above always attach one, so this branch does not
	// fire under the current rule set.
	if verdict.Suspected && verdict.Reason == "" {
		verdict.Reason = probableCause(roster)
	}

	return verdict
}

// probableCause ranks likely root causes when no rule supplied a reason:
// a dominant software version suggests a version-skew rollout problem,
// otherwise fall back to generic instability.
func probableCause(roster []models.Node) string {
	counts := make(map[string]int)
	for i := range roster {
		if v := roster[i].Version; v != "" {
			counts[v]++
		}
	}

	for ver, count := range counts {
		if float64(count)/float64(len(roster)) > versionSkewFrac {
			return "Possible version-skew issue around " + ver
		}
	}
	return "Elevated latency or gossip instability across the network"
}
