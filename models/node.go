package models

import "time"

// NodeStatus is the lifecycle status reported for a pNode in gossip.
type NodeStatus string

const (
	StatusOnline  NodeStatus = "online"
	StatusUnknown NodeStatus = "unknown"
	StatusOffline NodeStatus = "offline"
)

// Neutral defaults applied when optional telemetry was not reported.
// Scoring never fails on a missing field; it falls back to these.
const (
	DefaultPeersSeen        = 5
	DefaultPeerDiversity    = 0.5
	DefaultLatencyScore     = 0.7 // sub-score, not milliseconds
	DefaultUptimeRatio      = 0.8
	DefaultDataAvailability = 0.9
	DefaultVersionFreshness = 0.6
)

// Node is one pNode's record as of a single roster fetch. Records are
// immutable snapshots; an updated node is a new record in the next fetch.
type Node struct {
	ID      string     `json:"id"`
	IP      string     `json:"ip,omitempty"`
	Country string     `json:"country,omitempty"`
	City    string     `json:"city,omitempty"`
	Lat     float64    `json:"lat"`
	Lon     float64    `json:"lon"`
	Status  NodeStatus `json:"status"`
	Version string     `json:"version"`

	StorageUsed int64     `json:"storage_used"`
	LastSeen    time.Time `json:"last_seen"`

	// Optional telemetry. Nil means the field was absent from the fetched
	// record; accessors below substitute the documented defaults.
	PeersSeen        *int     `json:"peers_seen,omitempty"`
	PeerDiversity    *float64 `json:"peer_diversity,omitempty"`
	LatencyMS        *float64 `json:"latency_ms,omitempty"`
	UptimeRatio      *float64 `json:"uptime_ratio,omitempty"`
	DataAvailability *float64 `json:"data_availability,omitempty"`
	VersionFreshness *float64 `json:"version_freshness,omitempty"`
}

func (n *Node) PeersSeenValue() int {
	if n.PeersSeen == nil {
		return DefaultPeersSeen
	}
	return *n.PeersSeen
}

func (n *Node) PeerDiversityValue() float64 {
	if n.PeerDiversity == nil {
		return DefaultPeerDiversity
	}
	return *n.PeerDiversity
}

func (n *Node) UptimeRatioValue() float64 {
	if n.UptimeRatio == nil {
		return DefaultUptimeRatio
	}
	return *n.UptimeRatio
}

func (n *Node) DataAvailabilityValue() float64 {
	if n.DataAvailability == nil {
		return DefaultDataAvailability
	}
	return *n.DataAvailability
}

func (n *Node) VersionFreshnessValue() float64 {
	if n.VersionFreshness == nil {
		return DefaultVersionFreshness
	}
	return *n.VersionFreshness
}

// AgeAt returns how stale the node's gossip record is relative to ref.
// A zero LastSeen (unparseable upstream timestamp) counts as maximally
// stale rather than failing.
func (n *Node) AgeAt(ref time.Time) time.Duration {
	if n.LastSeen.IsZero() {
		return time.Duration(1<<62 - 1)
	}
	age := ref.Sub(n.LastSeen)
	if age < 0 {
		return 0
	}
	return age
}

// Helpers for building optional telemetry in normalization and tests.
func IntPtr(v int) *int             { return &v }
func Float64Ptr(v float64) *float64 { return &v }
