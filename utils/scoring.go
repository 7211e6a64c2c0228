package utils

import (
	"math"
	"time"

	"github.com/Wizi44/PNodes/models"
)

// Health blend weights. Fixed design parameters, not configurable per call.
const (
	weightStatus       = 0.25
	weightPeers        = 0.15
	weightDiversity    = 0.15
	weightLatency      = 0.15
	weightUptime       = 0.15
	weightAvailability = 0.10
	weightFreshness    = 0.05
)

// Reason thresholds. Independent of the weighting above.
const (
	LowPeerThreshold       = 3
	LowDiversityThreshold  = 0.4
	HighLatencyThresholdMS = 350
	LowUptimeThreshold     = 0.8
	LowAvailabilityThresh  = 0.8
	FreshnessHorizon       = 600 * time.Second
)

// Latency normalization window: 50ms scores 1.0, 500ms scores 0.0.
const (
	latencyFloorMS = 50
	latencySpanMS  = 450
)

// Health reason strings.
const (
	ReasonLowPeers       = "Low peer count in gossip"
	ReasonLowDiversity   = "Poor peer diversity"
	ReasonHighLatency    = "High response latency"
	ReasonLowUptime      = "Uptime below healthy range"
	ReasonLowAvail       = "Data availability degraded"
	ReasonStale          = "Not seen in recent gossip window"
	ReasonHealthy        = "Healthy gossip participation"
)

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func statusPrior(s models.NodeStatus) float64 {
	switch s {
	case models.StatusOnline:
		return 0.9
	case models.StatusUnknown:
		return 0.6
	default:
		return 0.2
	}
}

// latencyScore maps response latency onto [0,1]. Absent telemetry gets the
// documented neutral default rather than a penalty.
func latencyScore(n *models.Node) float64 {
	if n.LatencyMS == nil {
		return models.DefaultLatencyScore
	}
	return Clamp01(1 - (*n.LatencyMS-latencyFloorMS)/latencySpanMS)
}

func freshnessScore(n *models.Node, ref time.Time) float64 {
	age := n.AgeAt(ref)
	return Clamp01(1 - age.Seconds()/FreshnessHorizon.Seconds())
}

// ScoreHealth computes the short-horizon health of one node as observed at
// ref (normally the snapshot timestamp). Pure; safe to run concurrently
// across nodes.
func ScoreHealth(n *models.Node, ref time.Time) models.HealthResult {
	peers := n.PeersSeenValue()

	score := weightStatus*statusPrior(n.Status) +
		weightPeers*Clamp01(math.Log10(1+float64(peers))/2) +
		weightDiversity*Clamp01(n.PeerDiversityValue()) +
		weightLatency*latencyScore(n) +
		weightUptime*Clamp01(n.UptimeRatioValue()) +
		weightAvailability*Clamp01(n.DataAvailabilityValue()) +
		weightFreshness*freshnessScore(n, ref)
	score = Clamp01(score)

	result := models.HealthResult{
		Score: score,
		Tier:  HealthTierFor(score),
	}

	appendReason := func(r string) {
		for _, existing := range result.Reasons {
			if existing == r {
				return
			}
		}
		result.Reasons = append(result.Reasons, r)
	}

	if peers < LowPeerThreshold {
		appendReason(ReasonLowPeers)
	}
	if n.PeerDiversityValue() < LowDiversityThreshold {
		appendReason(ReasonLowDiversity)
	}
	if n.LatencyMS != nil && *n.LatencyMS > HighLatencyThresholdMS {
		appendReason(ReasonHighLatency)
	}
	if n.UptimeRatioValue() < LowUptimeThreshold {
		appendReason(ReasonLowUptime)
	}
	if n.DataAvailabilityValue() < LowAvailabilityThresh {
		appendReason(ReasonLowAvail)
	}
	if n.AgeAt(ref) > FreshnessHorizon {
		appendReason(ReasonStale)
	}
	if len(result.Reasons) == 0 && result.Tier == models.HealthGood {
		appendReason(ReasonHealthy)
	}

	return result
}

// HealthTierFor applies the exact tier boundaries: a score of 0.4 is
// already warning, a score of 0.7 is already good.
func HealthTierFor(score float64) models.HealthTier {
	switch {
	case score < 0.4:
		return models.HealthBad
	case score < 0.7:
		return models.HealthWarning
	default:
		return models.HealthGood
	}
}

// Reputation blend weights. Heavier on long-lived reliability than on
// instantaneous gossip behavior; the health score acts only as a small
// guardrail.
const (
	repWeightUptime       = 0.35
	repWeightAvailability = 0.35
	repWeightLatency      = 0.12
	repWeightVersion      = 0.12
	repWeightHealth       = 0.06
)

// ScoreReputation computes the long-horizon reputation of one node. Pure.
func ScoreReputation(n *models.Node, health models.HealthResult) models.ReputationResult {
	score := repWeightUptime*Clamp01(n.UptimeRatioValue()) +
		repWeightAvailability*Clamp01(n.DataAvailabilityValue()) +
		repWeightLatency*latencyScore(n) +
		repWeightVersion*Clamp01(n.VersionFreshnessValue()) +
		repWeightHealth*Clamp01(health.Score)
	score = Clamp01(score)

	return models.ReputationResult{
		Score: score,
		Tier:  ReputationTierFor(score),
	}
}

// ReputationTierFor applies the reputation boundaries: 0.8 is already
// gold, 0.5 is already silver. Intentionally asymmetric with health
// tiering; reputation is the stickier signal.
func ReputationTierFor(score float64) models.ReputationTier {
	switch {
	case score >= 0.8:
		return models.ReputationGold
	case score < 0.5:
		return models.ReputationRisky
	default:
		return models.ReputationSilver
	}
}
