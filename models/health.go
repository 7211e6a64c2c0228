package models

// HealthTier buckets a health score into operator-facing severity.
type HealthTier string

const (
	HealthGood    HealthTier = "good"
	HealthWarning HealthTier = "warning"
	HealthBad     HealthTier = "bad"
)

// HealthResult is the short-horizon composite of a node's current gossip
// participation quality. Reasons are distinct strings in evaluation order.
type HealthResult struct {
	Score   float64    `json:"score"`
	Tier    HealthTier `json:"tier"`
	Reasons []string   `json:"reasons"`
}

// ReputationTier buckets a reputation score.
type ReputationTier string

const (
	ReputationGold   ReputationTier = "gold"
	ReputationSilver ReputationTier = "silver"
	ReputationRisky  ReputationTier = "risky"
)

// ReputationResult is the long-horizon composite, biased toward uptime
// and storage reliability rather than instantaneous gossip behavior.
type ReputationResult struct {
	Score float64        `json:"score"`
	Tier  ReputationTier `json:"tier"`
}
