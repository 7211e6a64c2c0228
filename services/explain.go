package services

import (
	"fmt"

	"github.com/Wizi44/PNodes/models"
)

const (
	// ExplainWindow is how many trailing snapshots feed trend analysis.
	ExplainWindow = 20

	storageOutlierFactor = 1.5
	driftAgeFactor       = 1.4
	driftMinPoints       = 3
	lowUptimePrediction  = 0.7
	lowAvailPrediction   = 0.6
)

// Explain builds the operator-facing narrative for one node: ordered,
// deduplicated "why" strings plus independent short-horizon predictions.
// health and reputation may be nil when the caller has not scored the
// node; those narrative sources are simply skipped.
func Explain(node *models.Node, health *models.HealthResult, reputation *models.ReputationResult,
	anomalies models.AnomalySet, window []models.Snapshot, roster []models.Node) models.Explanation {

	expl := models.Explanation{NodeID: node.ID}
	seen := make(map[string]struct{})

	add := func(text string) {
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		expl.Why = append(expl.Why, text)
	}

	add(statusNarrative(node.Status))

	if anomalies.Has(node.ID, models.AnomalySuddenDrop) {
		add("Node abruptly dropped out of gossip since the previous snapshot.")
	}
	if anomalies.Has(node.ID, models.AnomalyIsolated) {
		add("Node sits in a region where most peers are offline, suggesting a local outage.")
	}
	if anomalies.Has(node.ID, models.AnomalyBlackHole) {
		add("Node looks like a black hole: present in the roster but not meaningfully participating.")
	}

	if health != nil {
		for _, reason := range health.Reasons {
			add(reason)
		}
	}

	if reputation != nil {
		add(reputationNarrative(reputation.Tier))
	}

	if avg := averageStorage(roster); avg > 0 && float64(node.StorageUsed) > storageOutlierFactor*avg {
		add(fmt.Sprintf("Node stores well above the network average (%.1fx), making it a heavier gossip target.",
			float64(node.StorageUsed)/avg))
	}

	expl.Predictions = predictions(node, window)
	return expl
}

func statusNarrative(status models.NodeStatus) string {
	switch status {
	case models.StatusOnline:
		return "Node is currently online and participating in gossip."
	case models.StatusOffline:
		return "Node is currently offline according to the latest roster."
	default:
		return "Node status is unknown; gossip data about it is incomplete."
	}
}

func reputationNarrative(tier models.ReputationTier) string {
	switch tier {
	case models.ReputationGold:
		return "Long-term reputation is gold: consistently reliable uptime and storage."
	case models.ReputationRisky:
		return "Long-term reputation is risky: sustained reliability problems."
	default:
		return "Long-term reputation is silver: generally dependable with occasional lapses."
	}
}

func averageStorage(roster []models.Node) float64 {
	if len(roster) == 0 {
		return 0
	}
	var total int64
	for i := range roster {
		total += roster[i].StorageUsed
	}
	return float64(total) / float64(len(roster))
}

// predictions evaluates each forecast rule independently; zero, one, or
// all of them may fire.
func predictions(node *models.Node, window []models.Snapshot) []models.Prediction {
	var preds []models.Prediction

	// Trend check: is the node's last-seen age growing across its most
	// recent appearances in the trailing window?
	if len(window) > ExplainWindow {
		window = window[len(window)-ExplainWindow:]
	}
	ages := make([]float64, 0, driftMinPoints)
	for i := len(window) - 1; i >= 0 && len(ages) < driftMinPoints; i-- {
		snap := &window[i]
		if past, ok := snap.NodeByID(node.ID); ok {
			ages = append(ages, past.AgeAt(snap.Timestamp).Seconds())
		}
	}
	if len(ages) >= driftMinPoints {
		latest := ages[0]
		earliest := ages[len(ages)-1]
		if earliest > 0 && latest > driftAgeFactor*earliest {
			preds = append(preds, models.Prediction{
				Message:    "Node is drifting out of gossip and may go offline soon.",
				Confidence: models.ConfidenceMedium,
			})
		}
	}

	if node.UptimeRatioValue() < lowUptimePrediction {
		preds = append(preds, models.Prediction{
			Message:    "Low uptime history; expect intermittent availability.",
			Confidence: models.ConfidenceHigh,
		})
	}

	if node.DataAvailabilityValue() < lowAvailPrediction {
		preds = append(preds, models.Prediction{
			Message:    "Storage layer is underperforming; retrievals from this node may degrade.",
			Confidence: models.ConfidenceMedium,
		})
	}

	return preds
}
